package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// It deliberately does not say whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when registering with a taken email or username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrForbidden is returned when a resource exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation wraps input validation failures. Handlers map it to 400.
	ErrValidation = errors.New("validation failed")
)
