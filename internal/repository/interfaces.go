package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Rafuego/symphony-v3/internal/models"
)

// ErrSwapConflict reports that a conditional priority swap found a record
// whose priority no longer matched the expected value.
var ErrSwapConflict = errors.New("priority swap conflict")

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client, passwordHash string) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByToken(ctx context.Context, token string) (*models.Client, string /*passwordHash*/, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, id string, u ClientUpdate) (*models.Client, error)
	Delete(ctx context.Context, id string) error
}

// ClientUpdate is a partial update; nil fields are left untouched. The
// double-pointer fields distinguish "leave alone" (nil) from "clear" (*nil).
type ClientUpdate struct {
	Name            *string
	Plan            *string
	Logo            *string
	CustomPrice     **int
	CustomMaxActive **int
	CustomDesigners **string
	PasswordHash    *string
	PasswordEnabled *bool
}

type RequestRepository interface {
	Create(ctx context.Context, r *models.Request) error
	GetByID(ctx context.Context, id string) (*models.Request, error)
	List(ctx context.Context, f RequestFilter) ([]models.Request, error)
	// ListQueued returns a client's in-queue requests in ascending priority order.
	ListQueued(ctx context.Context, clientID string) ([]models.Request, error)
	// CountActive counts a client's requests in in-progress or in-review.
	CountActive(ctx context.Context, clientID string) (int, error)
	// MaxQueuePriority returns the highest priority among a client's queued
	// requests, or 0 when the queue is empty.
	MaxQueuePriority(ctx context.Context, clientID string) (int, error)
	Update(ctx context.Context, id string, u RequestUpdate) (*models.Request, error)
	// SwapPriorities exchanges the priority values of two requests in a
	// single transaction, guarded by the expected current values. Returns
	// ErrSwapConflict when either record moved underneath us.
	SwapPriorities(ctx context.Context, id1 string, want1, set1 int, id2 string, want2, set2 int) error
	Delete(ctx context.Context, id string) error
}

type RequestFilter struct {
	ClientID string
	Status   models.Status
	Limit    int
	Offset   int
}

// RequestUpdate is a partial update; nil fields are left untouched.
type RequestUpdate struct {
	Title              *string
	Description        *string
	RequestType        *models.RequestType
	Links              *[]string
	Attachments        *[]models.Attachment
	Status             *models.Status
	Priority           *int
	StartedAt          **time.Time
	CompletedAt        **time.Time
	ExtensionHours     *int
	ExtensionRequested *bool
	ExtensionNote      *string
	AdminNotes         *string
}

type FileRepository interface {
	Add(ctx context.Context, f *models.RequestFile) error
	ListByRequest(ctx context.Context, requestID string) ([]models.RequestFile, error)
	Delete(ctx context.Context, fileID string) error
}

type NotificationRepository interface {
	Add(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, unreadOnly bool, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, ids []string) error
	MarkAllRead(ctx context.Context) error
	DeleteReadBefore(ctx context.Context, days int) error
}
