package postgres

import (
	"context"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FileRepo struct{ db *pgxpool.Pool }

func NewFileRepo(db *pgxpool.Pool) repository.FileRepository { return &FileRepo{db: db} }

func (r *FileRepo) Add(ctx context.Context, f *models.RequestFile) error {
	if f.FileType == "" {
		f.FileType = "file"
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO request_files (request_id, name, url, file_type)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, f.RequestID, f.Name, f.URL, f.FileType).Scan(&f.ID, &f.CreatedAt)
}

func (r *FileRepo) ListByRequest(ctx context.Context, requestID string) ([]models.RequestFile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, request_id, name, url, file_type, created_at
		FROM request_files
		WHERE request_id = $1
		ORDER BY created_at ASC
	`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RequestFile
	for rows.Next() {
		var f models.RequestFile
		if err := rows.Scan(&f.ID, &f.RequestID, &f.Name, &f.URL, &f.FileType, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FileRepo) Delete(ctx context.Context, fileID string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM request_files WHERE id=$1`, fileID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
