package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/faqgen-api/internal/domain"
)

// ActivityLogStore is the append-only audit sink. Entries are never read
// back by this service, only written.
// Version: 1.0
type ActivityLogStore interface {
	// Append writes one audit event.
	Append(ctx context.Context, entry *domain.ActivityLog) error

	// WithTx returns a new ActivityLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ActivityLogStore
}
