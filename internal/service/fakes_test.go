package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/repository"
)

// In-memory repositories backing the service tests. They implement the same
// contracts as the postgres implementations, including the conditional swap.

type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[string]*models.Client
	hashes  map[string]string
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[string]*models.Client{}, hashes: map[string]string{}}
}

func (f *fakeClientRepo) Create(_ context.Context, c *models.Client, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = fmt.Sprintf("client-%d", len(f.clients)+1)
	}
	cp := *c
	f.clients[c.ID] = &cp
	f.hashes[c.ID] = hash
	return nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClientRepo) GetByToken(_ context.Context, token string) (*models.Client, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		if c.AccessToken == token {
			cp := *c
			return &cp, f.hashes[c.ID], nil
		}
	}
	return nil, "", nil
}

func (f *fakeClientRepo) List(_ context.Context) ([]models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Client
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClientRepo) Update(_ context.Context, id string, u repository.ClientUpdate) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, nil
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Plan != nil {
		c.Plan = *u.Plan
	}
	if u.CustomMaxActive != nil {
		c.CustomMaxActive = *u.CustomMaxActive
	}
	if u.CustomPrice != nil {
		c.CustomPrice = *u.CustomPrice
	}
	if u.CustomDesigners != nil {
		c.CustomDesigners = *u.CustomDesigners
	}
	if u.PasswordHash != nil {
		f.hashes[id] = *u.PasswordHash
	}
	if u.PasswordEnabled != nil {
		c.PasswordEnabled = *u.PasswordEnabled
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClientRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, id)
	return nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]*models.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]*models.Request{}}
}

func (f *fakeRequestRepo) Create(_ context.Context, r *models.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	r.ID = fmt.Sprintf("req-%d", f.seq)
	cp := *r
	f.requests[r.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (*models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequestRepo) List(_ context.Context, flt repository.RequestFilter) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Request
	for _, r := range f.requests {
		if flt.ClientID != "" && r.ClientID != flt.ClientID {
			continue
		}
		if flt.Status != "" && r.Status != flt.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRequestRepo) ListQueued(_ context.Context, clientID string) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Request
	for _, r := range f.requests {
		if r.ClientID == clientID && r.Status == models.StatusInQueue {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (f *fakeRequestRepo) CountActive(_ context.Context, clientID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.ClientID == clientID && r.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (f *fakeRequestRepo) MaxQueuePriority(_ context.Context, clientID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, r := range f.requests {
		if r.ClientID == clientID && r.Status == models.StatusInQueue && r.Priority > max {
			max = r.Priority
		}
	}
	return max, nil
}

func (f *fakeRequestRepo) Update(_ context.Context, id string, u repository.RequestUpdate) (*models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.RequestType != nil {
		r.RequestType = *u.RequestType
	}
	if u.Links != nil {
		r.Links = *u.Links
	}
	if u.Attachments != nil {
		r.Attachments = *u.Attachments
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Priority != nil {
		r.Priority = *u.Priority
	}
	if u.StartedAt != nil {
		r.StartedAt = *u.StartedAt
	}
	if u.CompletedAt != nil {
		r.CompletedAt = *u.CompletedAt
	}
	if u.ExtensionHours != nil {
		r.ExtensionHours = *u.ExtensionHours
	}
	if u.ExtensionRequested != nil {
		r.ExtensionRequested = *u.ExtensionRequested
	}
	if u.ExtensionNote != nil {
		r.ExtensionNote = *u.ExtensionNote
	}
	if u.AdminNotes != nil {
		r.AdminNotes = *u.AdminNotes
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequestRepo) SwapPriorities(_ context.Context, id1 string, want1, set1 int, id2 string, want2, set2 int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r1, ok1 := f.requests[id1]
	r2, ok2 := f.requests[id2]
	if !ok1 || !ok2 || r1.Priority != want1 || r2.Priority != want2 {
		return repository.ErrSwapConflict
	}
	r1.Priority = set1
	r2.Priority = set2
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.requests, id)
	return nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	added []models.Notification
}

func (f *fakeNotificationRepo) Add(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = fmt.Sprintf("notif-%d", len(f.added)+1)
	f.added = append(f.added, *n)
	return nil
}

func (f *fakeNotificationRepo) List(_ context.Context, unreadOnly bool, limit int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Notification, len(f.added))
	copy(out, f.added)
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, x := range f.added {
		if !x.Read {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.added {
		for _, id := range ids {
			if f.added[i].ID == id {
				f.added[i].Read = true
			}
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.added {
		f.added[i].Read = true
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteReadBefore(_ context.Context, days int) error { return nil }
