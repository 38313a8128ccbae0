package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/plan"
	"github.com/Rafuego/symphony-v3/internal/repository"
	"github.com/Rafuego/symphony-v3/internal/utils"
)

// ClientService manages client accounts and their plan overrides.
type ClientService struct {
	clients  repository.ClientRepository
	requests repository.RequestRepository
	catalog  *plan.Catalog
}

func NewClientService(clients repository.ClientRepository, requests repository.RequestRepository, catalog *plan.Catalog) *ClientService {
	return &ClientService{clients: clients, requests: requests, catalog: catalog}
}

type ClientInput struct {
	Name            string
	Plan            string
	Password        string
	PasswordEnabled bool
	CustomPrice     *int
	CustomMaxActive *int
	CustomDesigners *string
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Plan == "" {
		in.Plan = "growth"
	}
	if _, ok := s.catalog.Lookup(in.Plan); !ok {
		return nil, fmt.Errorf("%w: unknown plan %q", ErrValidation, in.Plan)
	}

	var hash string
	enabled := in.PasswordEnabled && in.Password != ""
	if enabled {
		h, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	c := &models.Client{
		Name:            in.Name,
		Slug:            slugify(in.Name),
		Plan:            in.Plan,
		CustomPrice:     in.CustomPrice,
		CustomMaxActive: in.CustomMaxActive,
		CustomDesigners: in.CustomDesigners,
		PasswordEnabled: enabled,
		AccessToken:     uuid.NewString(),
	}
	if err := s.clients.Create(ctx, c, hash); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.clients.List(ctx)
}

// statusRank orders a portal view: working items first, then the queue in
// priority order, completed last.
func statusRank(st models.Status) int {
	switch st {
	case models.StatusInProgress:
		return 0
	case models.StatusInReview:
		return 1
	case models.StatusInQueue:
		return 2
	default:
		return 3
	}
}

// GetWithRequests loads a client and its requests sorted for display.
func (s *ClientService) GetWithRequests(ctx context.Context, id string) (*models.Client, []models.Request, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, nil, fmt.Errorf("%w: client %s", ErrNotFound, id)
	}

	reqs, err := s.requests.List(ctx, repository.RequestFilter{ClientID: id})
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		if a, b := statusRank(reqs[i].Status), statusRank(reqs[j].Status); a != b {
			return a < b
		}
		return reqs[i].Priority < reqs[j].Priority
	})
	return client, reqs, nil
}

type ClientUpdateInput struct {
	Name            *string
	Plan            *string
	Logo            *string
	Password        *string
	PasswordEnabled *bool
	CustomPrice     **int
	CustomMaxActive **int
	CustomDesigners **string
}

func (s *ClientService) Update(ctx context.Context, id string, in ClientUpdateInput) (*models.Client, error) {
	u := repository.ClientUpdate{
		Name:            in.Name,
		Logo:            in.Logo,
		CustomPrice:     in.CustomPrice,
		CustomMaxActive: in.CustomMaxActive,
		CustomDesigners: in.CustomDesigners,
	}
	if in.Plan != nil {
		if _, ok := s.catalog.Lookup(*in.Plan); !ok {
			return nil, fmt.Errorf("%w: unknown plan %q", ErrValidation, *in.Plan)
		}
		u.Plan = in.Plan
	}
	if in.Password != nil {
		if *in.Password != "" && in.PasswordEnabled != nil && *in.PasswordEnabled {
			h, err := utils.HashPassword(*in.Password)
			if err != nil {
				return nil, err
			}
			enabled := true
			u.PasswordHash = &h
			u.PasswordEnabled = &enabled
		} else {
			disabled := false
			u.PasswordEnabled = &disabled
		}
	} else if in.PasswordEnabled != nil {
		u.PasswordEnabled = in.PasswordEnabled
	}

	client, err := s.clients.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client %s", ErrNotFound, id)
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	return s.clients.Delete(ctx, id)
}

// Entitlements resolves the effective plan numbers shown on the portal.
func (s *ClientService) Entitlements(c *models.Client) (price int, maxActive int, designers string) {
	return s.catalog.EffectivePrice(c), s.catalog.EffectiveCapacity(c), s.catalog.EffectiveDesigners(c)
}
