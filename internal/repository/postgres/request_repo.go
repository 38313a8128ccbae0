package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestRepo struct{ db *pgxpool.Pool }

func NewRequestRepo(db *pgxpool.Pool) repository.RequestRepository { return &RequestRepo{db: db} }

const requestCols = `
	id, client_id, title, description, request_type, links, attachments,
	status, priority, started_at, completed_at,
	extension_hours, extension_requested, COALESCE(extension_note, ''),
	COALESCE(admin_notes, ''), created_at, updated_at`

func scanRequest(row pgx.Row) (*models.Request, error) {
	var q models.Request
	err := row.Scan(
		&q.ID, &q.ClientID, &q.Title, &q.Description, &q.RequestType, &q.Links, &q.Attachments,
		&q.Status, &q.Priority, &q.StartedAt, &q.CompletedAt,
		&q.ExtensionHours, &q.ExtensionRequested, &q.ExtensionNote,
		&q.AdminNotes, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *RequestRepo) Create(ctx context.Context, q *models.Request) error {
	now := time.Now()
	if q.Links == nil {
		q.Links = []string{}
	}
	if q.Attachments == nil {
		q.Attachments = []models.Attachment{}
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO requests (client_id, title, description, request_type, links, attachments,
			status, priority, started_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at
	`,
		q.ClientID, q.Title, q.Description, q.RequestType, q.Links, q.Attachments,
		q.Status, q.Priority, q.StartedAt, now, now,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (*models.Request, error) {
	q, err := scanRequest(r.db.QueryRow(ctx, `SELECT `+requestCols+` FROM requests WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	// working files, insertion order
	rows, err := r.db.Query(ctx, `
		SELECT id, request_id, name, url, file_type, created_at
		FROM request_files
		WHERE request_id = $1
		ORDER BY created_at ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var f models.RequestFile
		if err := rows.Scan(&f.ID, &f.RequestID, &f.Name, &f.URL, &f.FileType, &f.CreatedAt); err != nil {
			return nil, err
		}
		q.Files = append(q.Files, f)
	}
	return q, rows.Err()
}

func (r *RequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]models.Request, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	clauses := []string{"1=1"}
	args := []any{}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		clauses = append(clauses, "client_id = $"+itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, "status = $"+itoa(len(args)))
	}
	args = append(args, limit, offset)

	sql := fmt.Sprintf(`
		SELECT %s FROM requests
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, requestCols, strings.Join(clauses, " AND "), len(args)-1, len(args))

	return r.queryRequests(ctx, sql, args...)
}

func (r *RequestRepo) ListQueued(ctx context.Context, clientID string) ([]models.Request, error) {
	return r.queryRequests(ctx, `
		SELECT `+requestCols+` FROM requests
		WHERE client_id = $1 AND status = $2
		ORDER BY priority ASC
	`, clientID, models.StatusInQueue)
}

func (r *RequestRepo) queryRequests(ctx context.Context, sql string, args ...any) ([]models.Request, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Request
	for rows.Next() {
		q, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *RequestRepo) CountActive(ctx context.Context, clientID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM requests
		WHERE client_id = $1 AND status IN ($2, $3)
	`, clientID, models.StatusInProgress, models.StatusInReview).Scan(&n)
	return n, err
}

func (r *RequestRepo) MaxQueuePriority(ctx context.Context, clientID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(priority), 0) FROM requests
		WHERE client_id = $1 AND status = $2
	`, clientID, models.StatusInQueue).Scan(&n)
	return n, err
}

func (r *RequestRepo) Update(ctx context.Context, id string, u repository.RequestUpdate) (*models.Request, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+itoa(len(args)))
	}

	if u.Title != nil {
		set("title", *u.Title)
	}
	if u.Description != nil {
		set("description", *u.Description)
	}
	if u.RequestType != nil {
		set("request_type", *u.RequestType)
	}
	if u.Links != nil {
		set("links", *u.Links)
	}
	if u.Attachments != nil {
		set("attachments", *u.Attachments)
	}
	if u.Status != nil {
		set("status", *u.Status)
	}
	if u.Priority != nil {
		set("priority", *u.Priority)
	}
	if u.StartedAt != nil {
		set("started_at", *u.StartedAt)
	}
	if u.CompletedAt != nil {
		set("completed_at", *u.CompletedAt)
	}
	if u.ExtensionHours != nil {
		set("extension_hours", *u.ExtensionHours)
	}
	if u.ExtensionRequested != nil {
		set("extension_requested", *u.ExtensionRequested)
	}
	if u.ExtensionNote != nil {
		set("extension_note", *u.ExtensionNote)
	}
	if u.AdminNotes != nil {
		set("admin_notes", *u.AdminNotes)
	}

	args = append(args, id)
	sql := fmt.Sprintf(`UPDATE requests SET %s WHERE id = $%d RETURNING `+requestCols,
		strings.Join(sets, ", "), len(args))

	q, err := scanRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return q, nil
}

// SwapPriorities exchanges two requests' priorities in one transaction. Each
// leg is guarded by the expected current value so a concurrent reorder rolls
// the whole swap back instead of leaving duplicates.
func (r *RequestRepo) SwapPriorities(ctx context.Context, id1 string, want1, set1 int, id2 string, want2, set2 int) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `UPDATE requests SET priority=$1, updated_at=now() WHERE id=$2 AND priority=$3`,
			set1, id1, want1)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return repository.ErrSwapConflict
		}
		ct, err = tx.Exec(ctx, `UPDATE requests SET priority=$1, updated_at=now() WHERE id=$2 AND priority=$3`,
			set2, id2, want2)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return repository.ErrSwapConflict
		}
		return nil
	})
}

func (r *RequestRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// small helper to avoid fmt on hot paths.
func itoa(i int) string { return strconv.Itoa(i) }
