package domain

import "errors"

var (
	// ErrValidation wraps every entity validation failure. The wrapped
	// error carries the field-specific message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned for a nil or malformed identifier.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when a session may not touch a resource.
	ErrUnauthorized = errors.New("unauthorized operation")
)
