package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/plan"
	"github.com/Rafuego/symphony-v3/internal/repository"
)

// Notifier delivers best-effort outbound notifications. Failures are logged
// and never fail the operation that triggered them.
type Notifier interface {
	Send(ctx context.Context, p NotifyPayload) error
}

type NotifyPayload struct {
	Title       string
	Message     string
	ClientName  string
	RequestType string
	Link        string
}

// RequestService owns admission, lifecycle, queue ordering and extensions
// for design requests. It is stateless apart from the per-client locks; all
// records are read fresh from the repositories on every operation.
type RequestService struct {
	clients       repository.ClientRepository
	requests      repository.RequestRepository
	notifications repository.NotificationRepository
	catalog       *plan.Catalog
	notifier      Notifier
	log           zerolog.Logger
	locks         *clientLocks
	now           func() time.Time
}

func NewRequestService(
	clients repository.ClientRepository,
	requests repository.RequestRepository,
	notifications repository.NotificationRepository,
	catalog *plan.Catalog,
	notifier Notifier,
	log zerolog.Logger,
) *RequestService {
	return &RequestService{
		clients:       clients,
		requests:      requests,
		notifications: notifications,
		catalog:       catalog,
		notifier:      notifier,
		log:           log,
		locks:         newClientLocks(),
		now:           time.Now,
	}
}

type SubmitInput struct {
	ClientID    string
	Title       string
	Description string
	RequestType string
	Links       []string
	Attachments []models.Attachment
}

// Submit admits a new request: straight to in-progress when the client has a
// free active slot at this instant, otherwise to the tail of the queue. The
// capacity check and the insert are serialized per client.
func (s *RequestService) Submit(ctx context.Context, in SubmitInput) (*models.Request, error) {
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.Title = strings.TrimSpace(in.Title)
	if in.ClientID == "" || in.Title == "" {
		return nil, fmt.Errorf("%w: client id and title are required", ErrValidation)
	}
	reqType, err := models.ParseRequestType(in.RequestType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	client, err := s.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client %s", ErrNotFound, in.ClientID)
	}

	unlock := s.locks.lock(client.ID)
	defer unlock()

	active, err := s.requests.CountActive(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	req := &models.Request{
		ClientID:    client.ID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		RequestType: reqType,
		Links:       in.Links,
		Attachments: in.Attachments,
	}

	if active < s.catalog.EffectiveCapacity(client) {
		now := s.now()
		req.Status = models.StatusInProgress
		req.StartedAt = &now
	} else {
		req.Status = models.StatusInQueue
		maxPrio, err := s.requests.MaxQueuePriority(ctx, client.ID)
		if err != nil {
			return nil, err
		}
		// Priorities only ever grow; gaps left by departed items are fine.
		req.Priority = maxPrio + 1
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.record(ctx, &models.Notification{
		Type:      "new_request",
		ClientID:  client.ID,
		RequestID: req.ID,
		Message:   fmt.Sprintf("New request from %s: %s", client.Name, req.Title),
	})
	s.announce(NotifyPayload{
		Title:       "New Design Request",
		Message:     req.Title,
		ClientName:  client.Name,
		RequestType: string(req.RequestType),
		Link:        "/admin",
	})

	return req, nil
}

// transitions is the legal lifecycle graph. completed is terminal.
var transitions = map[models.Status][]models.Status{
	models.StatusInQueue:    {models.StatusInProgress},
	models.StatusInProgress: {models.StatusInReview, models.StatusInQueue},
	models.StatusInReview:   {models.StatusInProgress, models.StatusCompleted},
	models.StatusCompleted:  {},
}

func canTransition(from, to models.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SetStatus applies a lifecycle transition. Entering in-progress stamps
// started-at only on the first entry, so re-entry from in-review keeps the
// original deadline anchor. Entering completed always stamps completed-at.
//
// Completing a request does NOT promote the head of the client's queue; the
// queue only advances at submission time. promoteOnRelease is the hook if
// that product call ever changes.
func (s *RequestService) SetStatus(ctx context.Context, requestID string, next models.Status) (*models.Request, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	if req.Status == next {
		return req, nil
	}
	if !canTransition(req.Status, next) {
		return nil, fmt.Errorf("%w: cannot move %s request to %s", ErrValidation, req.Status, next)
	}

	wasActive := req.Status.Active()

	u := repository.RequestUpdate{Status: &next}
	switch next {
	case models.StatusInProgress:
		if req.StartedAt == nil {
			now := s.now()
			ptr := &now
			u.StartedAt = &ptr
		}
	case models.StatusCompleted:
		now := s.now()
		ptr := &now
		u.CompletedAt = &ptr
	case models.StatusInQueue:
		// Re-enqueued items go to the tail with a fresh priority so the
		// queue never holds duplicates.
		unlock := s.locks.lock(req.ClientID)
		maxPrio, err := s.requests.MaxQueuePriority(ctx, req.ClientID)
		if err != nil {
			unlock()
			return nil, err
		}
		prio := maxPrio + 1
		u.Priority = &prio
		defer unlock()
	}

	updated, err := s.requests.Update(ctx, requestID, u)
	if err != nil {
		return nil, err
	}

	if wasActive && !next.Active() {
		s.promoteOnRelease(ctx, req.ClientID)
	}
	return updated, nil
}

// promoteOnRelease is intentionally a no-op: freeing an active slot does not
// pull the next queued request into work. Left as the single place to change
// if continuous rebalancing is ever wanted.
func (s *RequestService) promoteOnRelease(ctx context.Context, clientID string) {
	_ = ctx
	_ = clientID
}

// Move swaps a queued request with its neighbor in the given direction. At
// the boundaries it is a successful no-op. The two-record swap is conditional
// on both priorities being unchanged; one retry with fresh data is attempted
// before the conflict surfaces.
func (s *RequestService) Move(ctx context.Context, clientID, requestID string, dir models.Direction) error {
	clientID = strings.TrimSpace(clientID)
	requestID = strings.TrimSpace(requestID)
	if clientID == "" || requestID == "" {
		return fmt.Errorf("%w: client id and request id are required", ErrValidation)
	}

	unlock := s.locks.lock(clientID)
	defer unlock()

	for attempt := 0; ; attempt++ {
		err := s.moveOnce(ctx, clientID, requestID, dir)
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrSwapConflict) && attempt == 0 {
			s.log.Warn().Str("client_id", clientID).Str("request_id", requestID).
				Msg("priority swap conflict, retrying with fresh queue")
			continue
		}
		if errors.Is(err, repository.ErrSwapConflict) {
			return fmt.Errorf("%w: queue changed during reorder", ErrConflict)
		}
		return err
	}
}

func (s *RequestService) moveOnce(ctx context.Context, clientID, requestID string, dir models.Direction) error {
	queued, err := s.requests.ListQueued(ctx, clientID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range queued {
		if queued[i].ID == requestID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: request %s is not in the queue", ErrNotFound, requestID)
	}

	var swapIdx int
	switch {
	case dir == models.DirUp && idx > 0:
		swapIdx = idx - 1
	case dir == models.DirDown && idx < len(queued)-1:
		swapIdx = idx + 1
	default:
		return nil // already at the boundary
	}

	cur, other := queued[idx], queued[swapIdx]
	return s.requests.SwapPriorities(ctx,
		cur.ID, cur.Priority, other.Priority,
		other.ID, other.Priority, cur.Priority,
	)
}

// RequestExtension adds hours to a request's deadline window. Extensions
// accumulate and never shrink; the note overwrites any previous one. The
// started-at anchor is untouched.
func (s *RequestService) RequestExtension(ctx context.Context, requestID string, hours int, note string) (*models.Request, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("%w: extension hours must be positive", ErrValidation)
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}

	total := req.ExtensionHours + hours
	requested := true
	note = strings.TrimSpace(note)
	updated, err := s.requests.Update(ctx, requestID, repository.RequestUpdate{
		ExtensionHours:     &total,
		ExtensionRequested: &requested,
		ExtensionNote:      &note,
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, &models.Notification{
		Type:      "extension_request",
		ClientID:  req.ClientID,
		RequestID: req.ID,
		Message:   fmt.Sprintf("+%dh extension on %q", hours, req.Title),
	})
	return updated, nil
}

type UpdateInput struct {
	Title              *string
	Description        *string
	RequestType        *string
	Links              *[]string
	Attachments        *[]models.Attachment
	Status             *string
	Priority           *int
	AdminNotes         *string
	ExtensionRequested *bool
	ExtensionNote      *string
}

// Update applies independent partial field updates. A status field routes
// through SetStatus so lifecycle stamps are never skipped.
func (s *RequestService) Update(ctx context.Context, requestID string, in UpdateInput) (*models.Request, error) {
	if in.Status != nil {
		next, err := models.ParseStatus(*in.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if _, err := s.SetStatus(ctx, requestID, next); err != nil {
			return nil, err
		}
	}

	u := repository.RequestUpdate{
		Links:              in.Links,
		Attachments:        in.Attachments,
		Priority:           in.Priority,
		AdminNotes:         in.AdminNotes,
		ExtensionRequested: in.ExtensionRequested,
		ExtensionNote:      in.ExtensionNote,
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		u.Title = &t
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		u.Description = &d
	}
	if in.RequestType != nil {
		rt, err := models.ParseRequestType(*in.RequestType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		u.RequestType = &rt
	}

	updated, err := s.requests.Update(ctx, requestID, u)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	return updated, nil
}

func (s *RequestService) Get(ctx context.Context, requestID string) (*models.Request, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	return req, nil
}

func (s *RequestService) List(ctx context.Context, f repository.RequestFilter) ([]models.Request, error) {
	return s.requests.List(ctx, f)
}

// Delete removes a request unconditionally. Queue positions behind it are
// not renumbered; priority gaps are harmless.
func (s *RequestService) Delete(ctx context.Context, requestID string) error {
	return s.requests.Delete(ctx, requestID)
}

func (s *RequestService) record(ctx context.Context, n *models.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Add(ctx, n); err != nil {
		s.log.Error().Err(err).Str("type", n.Type).Msg("record notification failed")
	}
}

// announce fires the outbound notifier without blocking or failing the
// calling operation.
func (s *RequestService) announce(p NotifyPayload) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, p); err != nil {
			s.log.Error().Err(err).Str("title", p.Title).Msg("notify failed")
		}
	}()
}
