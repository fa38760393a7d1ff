package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/faqgen-api/internal/service"
	"github.com/phrazzld/faqgen-api/internal/service/auth"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrBulkNotAllowed):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrShopNotFound),
		errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrJobNotFound),
		errors.Is(err, service.ErrNoActiveJob):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrActiveJobExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrNoTargetProducts):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrBulkNotAllowed):
		return "Your plan does not include bulk FAQ generation"

	case errors.Is(err, service.ErrNoActiveJob):
		return "No active bulk job to cancel"

	case errors.Is(err, store.ErrActiveJobExists):
		return "A bulk job is already running for this shop"

	case errors.Is(err, service.ErrNoTargetProducts):
		return "No products match the requested mode"

	case errors.Is(err, store.ErrShopNotFound):
		return "Shop not found"

	case errors.Is(err, store.ErrProductNotFound):
		return "Product not found"

	case errors.Is(err, store.ErrJobNotFound):
		return "Bulk job not found"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
