package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vaultconnect/internal/domain"
	"vaultconnect/internal/repository"
)

const createWidgetsTable = `
CREATE TABLE IF NOT EXISTS widgets (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	widget_type TEXT NOT NULL,
	settings TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_widgets_user_id ON widgets(user_id);
`

type WidgetRepository struct {
	db *sql.DB
}

func NewWidgetRepository(db *sql.DB) repository.WidgetRepository {
	return &WidgetRepository{db: db}
}

func (r *WidgetRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createWidgetsTable); err != nil {
		return fmt.Errorf("create widgets table: %w", err)
	}
	return nil
}

func (r *WidgetRepository) Create(ctx context.Context, widget *domain.Widget) error {
	now := time.Now().UTC()
	widget.CreatedAt = now
	widget.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO widgets (id, user_id, widget_type, settings, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		widget.ID,
		widget.UserID,
		string(widget.Type),
		settingsToText(widget.Settings),
		widget.CreatedAt,
		widget.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert widget: %w", err)
	}
	return nil
}

func (r *WidgetRepository) GetByID(ctx context.Context, id string) (*domain.Widget, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, widget_type, settings, created_at, updated_at
FROM widgets
WHERE id = ?`,
		id,
	)
	return scanWidget(row)
}

func (r *WidgetRepository) ListByUser(ctx context.Context, userID string) ([]domain.Widget, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, widget_type, settings, created_at, updated_at
FROM widgets
WHERE user_id = ?
ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}
	defer rows.Close()

	var widgets []domain.Widget
	for rows.Next() {
		widget, err := scanWidget(rows)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, *widget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate widgets: %w", err)
	}
	return widgets, nil
}

func (r *WidgetRepository) Update(ctx context.Context, widget *domain.Widget) error {
	widget.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE widgets
SET widget_type=?, settings=?, updated_at=?
WHERE id=?`,
		string(widget.Type),
		settingsToText(widget.Settings),
		widget.UpdatedAt,
		widget.ID,
	)
	if err != nil {
		return fmt.Errorf("update widget: %w", err)
	}
	return requireRowAffected(res, "update widget")
}

func (r *WidgetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM widgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete widget: %w", err)
	}
	return requireRowAffected(res, "delete widget")
}

func (r *WidgetRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM widgets WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete widgets by user: %w", err)
	}
	return nil
}

func scanWidget(row interface {
	Scan(dest ...any) error
}) (*domain.Widget, error) {
	var (
		widget     domain.Widget
		widgetType string
		settings   string
	)
	if err := row.Scan(
		&widget.ID,
		&widget.UserID,
		&widgetType,
		&settings,
		&widget.CreatedAt,
		&widget.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan widget: %w", err)
	}
	widget.Type = domain.WidgetType(widgetType)
	widget.Settings = json.RawMessage(settings)
	return &widget, nil
}

func settingsToText(settings json.RawMessage) string {
	if len(settings) == 0 {
		return "{}"
	}
	return string(settings)
}
