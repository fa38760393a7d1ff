package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
)

// SubscriptionStore defines read access to shop subscriptions and their
// plans, as consumed by entitlement resolution.
// Version: 1.0
type SubscriptionStore interface {
	// FindActiveByShop retrieves all of the shop's active subscriptions
	// with their plans populated. Shops can legitimately hold more than
	// one active row (e.g. mid-upgrade); callers must not assume
	// uniqueness. Returns an empty slice when the shop has none.
	FindActiveByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Subscription, error)

	// WithTx returns a new SubscriptionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SubscriptionStore
}
