package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"vaultconnect/internal/domain"
	"vaultconnect/internal/repository"
)

// WidgetService describes dashboard widget operations. Every read or mutation
// of a single widget checks ownership: not-found first, then owner match.
type WidgetService interface {
	List(ctx context.Context, userID string) ([]domain.Widget, error)
	Create(ctx context.Context, userID string, widgetType domain.WidgetType, settings json.RawMessage) (*domain.Widget, error)
	Get(ctx context.Context, userID, id string) (*domain.Widget, error)
	Update(ctx context.Context, userID, id string, widgetType *domain.WidgetType, settings json.RawMessage) (*domain.Widget, error)
	Delete(ctx context.Context, userID, id string) error
}

type widgetService struct {
	widgets repository.WidgetRepository
}

func NewWidgetService(widgets repository.WidgetRepository) WidgetService {
	return &widgetService{widgets: widgets}
}

func (s *widgetService) List(ctx context.Context, userID string) ([]domain.Widget, error) {
	return s.widgets.ListByUser(ctx, userID)
}

func (s *widgetService) Create(ctx context.Context, userID string, widgetType domain.WidgetType, settings json.RawMessage) (*domain.Widget, error) {
	if !domain.ValidWidgetType(widgetType) {
		return nil, fmt.Errorf("%w: unknown widget type %q", ErrValidation, widgetType)
	}
	settings, err := normalizeSettings(settings)
	if err != nil {
		return nil, err
	}

	widget := &domain.Widget{
		ID:       uuid.NewString(),
		UserID:   userID,
		Type:     widgetType,
		Settings: settings,
	}
	if err := s.widgets.Create(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

func (s *widgetService) Get(ctx context.Context, userID, id string) (*domain.Widget, error) {
	widget, err := s.widgets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if widget.UserID != userID {
		return nil, ErrForbidden
	}
	return widget, nil
}

func (s *widgetService) Update(ctx context.Context, userID, id string, widgetType *domain.WidgetType, settings json.RawMessage) (*domain.Widget, error) {
	widget, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if widgetType != nil {
		if !domain.ValidWidgetType(*widgetType) {
			return nil, fmt.Errorf("%w: unknown widget type %q", ErrValidation, *widgetType)
		}
		widget.Type = *widgetType
	}
	if settings != nil {
		settings, err = normalizeSettings(settings)
		if err != nil {
			return nil, err
		}
		widget.Settings = settings
	}

	if err := s.widgets.Update(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

func (s *widgetService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.widgets.Delete(ctx, id)
}

func normalizeSettings(settings json.RawMessage) (json.RawMessage, error) {
	if len(settings) == 0 {
		return json.RawMessage(`{}`), nil
	}
	if !json.Valid(settings) {
		return nil, fmt.Errorf("%w: settings must be valid JSON", ErrValidation)
	}
	return settings, nil
}
