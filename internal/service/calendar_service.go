package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vaultconnect/internal/domain"
	"vaultconnect/internal/repository"
)

// EventInput carries the caller-supplied calendar event fields.
type EventInput struct {
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Location    string
	Color       string
	AllDay      bool
}

// CalendarService describes calendar event operations with per-request
// ownership checks, mirroring the widget contract.
type CalendarService interface {
	List(ctx context.Context, userID string) ([]domain.CalendarEvent, error)
	Create(ctx context.Context, userID string, input EventInput) (*domain.CalendarEvent, error)
	Get(ctx context.Context, userID, id string) (*domain.CalendarEvent, error)
	Update(ctx context.Context, userID, id string, input EventInput) (*domain.CalendarEvent, error)
	Delete(ctx context.Context, userID, id string) error
}

type calendarService struct {
	events repository.EventRepository
}

func NewCalendarService(events repository.EventRepository) CalendarService {
	return &calendarService{events: events}
}

func (s *calendarService) List(ctx context.Context, userID string) ([]domain.CalendarEvent, error) {
	return s.events.ListByUser(ctx, userID)
}

func (s *calendarService) Create(ctx context.Context, userID string, input EventInput) (*domain.CalendarEvent, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event := &domain.CalendarEvent{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Location:    input.Location,
		Color:       input.Color,
		AllDay:      input.AllDay,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *calendarService) Get(ctx context.Context, userID, id string) (*domain.CalendarEvent, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, ErrForbidden
	}
	return event, nil
}

func (s *calendarService) Update(ctx context.Context, userID, id string, input EventInput) (*domain.CalendarEvent, error) {
	event, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event.Title = strings.TrimSpace(input.Title)
	event.Description = input.Description
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt
	event.Location = input.Location
	event.Color = input.Color
	event.AllDay = input.AllDay

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *calendarService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.events.Delete(ctx, id)
}

func validateEventInput(input EventInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.StartsAt.IsZero() || input.EndsAt.IsZero() {
		return fmt.Errorf("%w: start and end times are required", ErrValidation)
	}
	if input.EndsAt.Before(input.StartsAt) {
		return fmt.Errorf("%w: end time must not be before start time", ErrValidation)
	}
	return nil
}
