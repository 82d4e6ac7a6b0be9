package domain

import "time"

// CalendarEvent is a scheduled entry on a user's dashboard calendar.
type CalendarEvent struct {
	ID          string
	UserID      string
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Location    string
	Color       string
	AllDay      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
