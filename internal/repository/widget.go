package repository

import (
	"context"

	"vaultconnect/internal/domain"
)

// WidgetRepository defines persistence operations for Widget entities.
type WidgetRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, widget *domain.Widget) error
	GetByID(ctx context.Context, id string) (*domain.Widget, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Widget, error)
	Update(ctx context.Context, widget *domain.Widget) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
