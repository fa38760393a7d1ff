package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
)

// ProductStore defines read/flag access to the mirrored catalog. Catalog
// sync owns everything else about these rows.
// Version: 1.0
type ProductStore interface {
	// FindByShop retrieves the shop's products in a stable order
	// (creation time, then ID). When missingFAQOnly is true, products
	// already flagged as having FAQ content are excluded.
	FindByShop(ctx context.Context, shopID uuid.UUID, missingFAQOnly bool) ([]*domain.Product, error)

	// CountByShop counts the products FindByShop would return.
	CountByShop(ctx context.Context, shopID uuid.UUID, missingFAQOnly bool) (int, error)

	// GetByID retrieves a product by its unique ID.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// SetHasFAQ updates the product's "has generated content" flag.
	// Returns ErrProductNotFound if the product does not exist.
	SetHasFAQ(ctx context.Context, id uuid.UUID, hasFAQ bool) error

	// WithTx returns a new ProductStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProductStore
}
