package repository

import (
	"context"

	"vaultconnect/internal/domain"
)

// EventRepository defines persistence operations for CalendarEvent entities.
type EventRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, event *domain.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CalendarEvent, error)
	Update(ctx context.Context, event *domain.CalendarEvent) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
