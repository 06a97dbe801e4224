package service

import "errors"

// Service-level sentinel errors. The API layer maps them onto status codes.
var (
	// ErrAuthRequired is returned when an anonymous session calls an
	// operation that persists per-user data.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRequestInFlight is returned when a user starts a second deck
	// generation before the first finished.
	ErrRequestInFlight = errors.New("a flashcard generation request is already in progress")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("Invalid email or password")

	// ErrInvalidAction is returned by Navigate for an unknown deck action.
	ErrInvalidAction = errors.New("invalid deck action")
)
