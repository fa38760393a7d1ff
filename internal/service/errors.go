package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent expected conditions that callers check with
// errors.Is(). The API layer maps them to HTTP status codes.
var (
	// ErrBulkNotAllowed indicates the shop's plan does not include bulk
	// generation. API layer should map this to HTTP 403 Forbidden.
	ErrBulkNotAllowed = errors.New("shop plan does not allow bulk generation")

	// ErrNoTargetProducts indicates the requested mode selects zero
	// products, so there is nothing to start a job for.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNoTargetProducts = errors.New("no products match the requested generation mode")

	// ErrNoActiveJob indicates a cancel request found no job in a
	// non-terminal state. API layer should map this to HTTP 404 Not Found.
	ErrNoActiveJob = errors.New("no active bulk job for shop")

	// ErrNoJobs indicates the shop has never run a bulk job.
	ErrNoJobs = errors.New("no bulk jobs for shop")
)
