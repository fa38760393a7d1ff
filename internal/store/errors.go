package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for example
	// because the entity does not exist or the update violates constraints.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrShopNotFound indicates that the requested shop does not exist in the store.
	ErrShopNotFound = fmt.Errorf("%w: shop", ErrNotFound)

	// ErrProductNotFound indicates that the requested product does not exist in the store.
	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)

	// ErrFAQNotFound indicates that the requested FAQ record does not exist in the store.
	ErrFAQNotFound = fmt.Errorf("%w: faq", ErrNotFound)

	// ErrJobNotFound indicates that the requested bulk job does not exist in the store.
	ErrJobNotFound = fmt.Errorf("%w: bulk job", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrActiveJobExists indicates that the shop already has a job in a
	// non-terminal state. The bulk_jobs table enforces this with a partial
	// unique index, so concurrent starts cannot both claim the slot.
	ErrActiveJobExists = fmt.Errorf("%w: active bulk job", ErrDuplicate)

	// ErrShopDomainExists indicates that a shop with the given domain already exists.
	ErrShopDomainExists = fmt.Errorf("%w: shop domain", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
