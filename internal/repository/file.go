package repository

import (
	"context"

	"vaultconnect/internal/domain"
)

// FileRepository defines persistence operations for uploaded file metadata.
type FileRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, file *domain.File) error
	GetByID(ctx context.Context, id string) (*domain.File, error)
	ListByUser(ctx context.Context, userID string) ([]domain.File, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
