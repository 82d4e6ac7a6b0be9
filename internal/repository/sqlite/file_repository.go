package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vaultconnect/internal/domain"
	"vaultconnect/internal/repository"
)

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	filename TEXT NOT NULL,
	storage_key TEXT NOT NULL,
	size INTEGER NOT NULL,
	content_type TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_files_user_id ON files(user_id);
`

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) repository.FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFilesTable); err != nil {
		return fmt.Errorf("create files table: %w", err)
	}
	return nil
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	now := time.Now().UTC()
	file.CreatedAt = now
	file.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO files (id, user_id, filename, storage_key, size, content_type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		file.ID,
		file.UserID,
		file.Filename,
		file.StorageKey,
		file.Size,
		file.ContentType,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.File, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, filename, storage_key, size, content_type, created_at, updated_at
FROM files
WHERE id = ?`,
		id,
	)
	return scanFile(row)
}

func (r *FileRepository) ListByUser(ctx context.Context, userID string) ([]domain.File, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, filename, storage_key, size, content_type, created_at, updated_at
FROM files
WHERE user_id = ?
ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []domain.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return requireRowAffected(res, "delete file")
}

func (r *FileRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete files by user: %w", err)
	}
	return nil
}

func scanFile(row interface {
	Scan(dest ...any) error
}) (*domain.File, error) {
	var file domain.File
	if err := row.Scan(
		&file.ID,
		&file.UserID,
		&file.Filename,
		&file.StorageKey,
		&file.Size,
		&file.ContentType,
		&file.CreatedAt,
		&file.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return &file, nil
}
