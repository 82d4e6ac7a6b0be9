package domain

import "time"

// File is metadata for an uploaded object. The bytes themselves live in
// object storage under StorageKey.
type File struct {
	ID          string
	UserID      string
	Filename    string
	StorageKey  string
	Size        int64
	ContentType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
