package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
)

// FAQStore defines the interface for generated content persistence.
// Version: 1.0
type FAQStore interface {
	// Upsert writes the FAQ record for a product. If the product has no
	// record one is created; otherwise all per-language lists, the
	// primary-language count, and generation metadata are overwritten in
	// place. Records are never versioned: last write wins.
	Upsert(ctx context.Context, faq *domain.FAQ) error

	// GetByProduct retrieves the product's FAQ record.
	// Returns ErrFAQNotFound if the product has none.
	GetByProduct(ctx context.Context, productID uuid.UUID) (*domain.FAQ, error)

	// WithTx returns a new FAQStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FAQStore
}
