package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidJobStatus is returned when a bulk job status is not valid.
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrInvalidJobMode is returned when a bulk job mode is not valid.
	ErrInvalidJobMode = errors.New("invalid job mode")

	// ErrInvalidTransition is returned when a bulk job status change would
	// leave a terminal state.
	ErrInvalidTransition = errors.New("invalid job status transition")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)
