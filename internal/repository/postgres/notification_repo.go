package postgres

import (
	"context"
	"fmt"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepo struct{ db *pgxpool.Pool }

func NewNotificationRepo(db *pgxpool.Pool) repository.NotificationRepository {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Add(ctx context.Context, n *models.Notification) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO notifications (type, client_id, request_id, message)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, n.Type, n.ClientID, n.RequestID, n.Message).Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepo) List(ctx context.Context, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	where := ""
	if unreadOnly {
		where = "WHERE n.read = false"
	}
	sql := fmt.Sprintf(`
		SELECT n.id, n.type, n.client_id, n.request_id, COALESCE(c.name, ''), n.message, n.read, n.created_at
		FROM notifications n
		LEFT JOIN clients c ON c.id = n.client_id
		%s
		ORDER BY n.created_at DESC
		LIMIT $1
	`, where)

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.ClientID, &n.RequestID, &n.ClientName, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) CountUnread(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE read = false`).Scan(&n)
	return n, err
}

func (r *NotificationRepo) MarkRead(ctx context.Context, ids []string) error {
	_, err := r.db.Exec(ctx, `UPDATE notifications SET read = true WHERE id = ANY($1)`, ids)
	return err
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `UPDATE notifications SET read = true WHERE read = false`)
	return err
}

// DeleteReadBefore prunes read notifications older than the given number of days.
func (r *NotificationRepo) DeleteReadBefore(ctx context.Context, days int) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM notifications
		WHERE read = true AND created_at < now() - make_interval(days => $1)
	`, days)
	return err
}
