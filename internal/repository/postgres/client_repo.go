package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepo struct{ db *pgxpool.Pool }

func NewClientRepo(db *pgxpool.Pool) repository.ClientRepository { return &ClientRepo{db: db} }

const clientCols = `
	id, name, slug, COALESCE(logo, ''), plan,
	custom_price, custom_max_active, custom_designers,
	password_enabled, access_token, created_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Logo, &c.Plan,
		&c.CustomPrice, &c.CustomMaxActive, &c.CustomDesigners,
		&c.PasswordEnabled, &c.AccessToken, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) Create(ctx context.Context, c *models.Client, passwordHash string) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO clients (name, slug, plan, logo, custom_price, custom_max_active, custom_designers,
			password_hash, password_enabled, access_token)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at
	`,
		c.Name, c.Slug, c.Plan, nullIfEmpty(c.Logo), c.CustomPrice, c.CustomMaxActive, c.CustomDesigners,
		nullIfEmpty(passwordHash), c.PasswordEnabled, c.AccessToken,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *ClientRepo) GetByToken(ctx context.Context, token string) (*models.Client, string, error) {
	var c models.Client
	var hash *string
	err := r.db.QueryRow(ctx, `
		SELECT `+clientCols+`, password_hash FROM clients WHERE access_token=$1
	`, token).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Logo, &c.Plan,
		&c.CustomPrice, &c.CustomMaxActive, &c.CustomDesigners,
		&c.PasswordEnabled, &c.AccessToken, &c.CreatedAt, &hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	if hash == nil {
		return &c, "", nil
	}
	return &c, *hash, nil
}

// List returns all clients newest first with per-status request counts.
func (r *ClientRepo) List(ctx context.Context) ([]models.Client, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			c.id, c.name, c.slug, COALESCE(c.logo, ''), c.plan,
			c.custom_price, c.custom_max_active, c.custom_designers,
			c.password_enabled, c.access_token, c.created_at,
			COUNT(*) FILTER (WHERE q.status IN ('in-progress','in-review')),
			COUNT(*) FILTER (WHERE q.status = 'in-queue'),
			COUNT(*) FILTER (WHERE q.status = 'completed')
		FROM clients c
		LEFT JOIN requests q ON q.client_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Logo, &c.Plan,
			&c.CustomPrice, &c.CustomMaxActive, &c.CustomDesigners,
			&c.PasswordEnabled, &c.AccessToken, &c.CreatedAt,
			&c.ActiveCount, &c.QueuedCount, &c.CompletedCount,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ClientRepo) Update(ctx context.Context, id string, u repository.ClientUpdate) (*models.Client, error) {
	sets := []string{}
	args := []any{}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+itoa(len(args)))
	}

	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.Plan != nil {
		set("plan", *u.Plan)
	}
	if u.Logo != nil {
		set("logo", nullIfEmpty(*u.Logo))
	}
	if u.CustomPrice != nil {
		set("custom_price", *u.CustomPrice)
	}
	if u.CustomMaxActive != nil {
		set("custom_max_active", *u.CustomMaxActive)
	}
	if u.CustomDesigners != nil {
		set("custom_designers", *u.CustomDesigners)
	}
	if u.PasswordHash != nil {
		set("password_hash", *u.PasswordHash)
	}
	if u.PasswordEnabled != nil {
		set("password_enabled", *u.PasswordEnabled)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	sql := fmt.Sprintf(`UPDATE clients SET %s WHERE id = $%d RETURNING `+clientCols,
		strings.Join(sets, ", "), len(args))

	c, err := scanClient(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Delete removes the client and, via FK cascade, its requests and files.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
