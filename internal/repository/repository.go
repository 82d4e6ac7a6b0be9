package repository

import "errors"

// ErrNotFound is returned when a record does not exist. Handlers map it to 404.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint (email, username) is violated.
var ErrDuplicate = errors.New("record already exists")
