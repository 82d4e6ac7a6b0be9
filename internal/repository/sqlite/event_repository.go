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

const createEventsTable = `
CREATE TABLE IF NOT EXISTS calendar_events (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	starts_at DATETIME NOT NULL,
	ends_at DATETIME NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	all_day INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calendar_events_user_id ON calendar_events(user_id);
`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEventsTable); err != nil {
		return fmt.Errorf("create calendar events table: %w", err)
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.CalendarEvent) error {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO calendar_events (id, user_id, title, description, starts_at, ends_at, location, color, all_day, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.UserID,
		event.Title,
		event.Description,
		event.StartsAt.UTC(),
		event.EndsAt.UTC(),
		event.Location,
		event.Color,
		event.AllDay,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, description, starts_at, ends_at, location, color, all_day, created_at, updated_at
FROM calendar_events
WHERE id = ?`,
		id,
	)
	return scanEvent(row)
}

func (r *EventRepository) ListByUser(ctx context.Context, userID string) ([]domain.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, description, starts_at, ends_at, location, color, all_day, created_at, updated_at
FROM calendar_events
WHERE user_id = ?
ORDER BY starts_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.CalendarEvent) error {
	event.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE calendar_events
SET title=?, description=?, starts_at=?, ends_at=?, location=?, color=?, all_day=?, updated_at=?
WHERE id=?`,
		event.Title,
		event.Description,
		event.StartsAt.UTC(),
		event.EndsAt.UTC(),
		event.Location,
		event.Color,
		event.AllDay,
		event.UpdatedAt,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return requireRowAffected(res, "update event")
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireRowAffected(res, "delete event")
}

func (r *EventRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete events by user: %w", err)
	}
	return nil
}

func scanEvent(row interface {
	Scan(dest ...any) error
}) (*domain.CalendarEvent, error) {
	var event domain.CalendarEvent
	if err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Title,
		&event.Description,
		&event.StartsAt,
		&event.EndsAt,
		&event.Location,
		&event.Color,
		&event.AllDay,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &event, nil
}
