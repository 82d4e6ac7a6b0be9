package domain

import (
	"encoding/json"
	"time"
)

type WidgetType string

const (
	WidgetTypeWeather       WidgetType = "weather"
	WidgetTypeCalendar      WidgetType = "calendar"
	WidgetTypeTodo          WidgetType = "todo"
	WidgetTypeFinancialNews WidgetType = "financial-news"
	WidgetTypeNews          WidgetType = "news"
	WidgetTypeRSS           WidgetType = "rss"
)

// ValidWidgetType reports whether t is one of the supported dashboard widget types.
func ValidWidgetType(t WidgetType) bool {
	switch t {
	case WidgetTypeWeather, WidgetTypeCalendar, WidgetTypeTodo,
		WidgetTypeFinancialNews, WidgetTypeNews, WidgetTypeRSS:
		return true
	}
	return false
}

// Widget is a single dashboard panel owned by a user. Settings is a free-form
// payload interpreted by the frontend (city for weather, feed URL for rss, ...).
type Widget struct {
	ID        string
	UserID    string
	Type      WidgetType
	Settings  json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
