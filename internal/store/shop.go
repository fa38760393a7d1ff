package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
)

// ShopStore defines the interface for shop (tenant) persistence.
// Version: 1.0
type ShopStore interface {
	// Create saves a new shop to the store.
	// Returns ErrShopDomainExists if the domain is already registered.
	Create(ctx context.Context, shop *domain.Shop) error

	// GetByID retrieves a shop by its unique ID.
	// Returns ErrShopNotFound if the shop does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)

	// GetByDomain retrieves a shop by its unique store domain.
	// Returns ErrShopNotFound if the shop does not exist.
	GetByDomain(ctx context.Context, shopDomain string) (*domain.Shop, error)

	// WithTx returns a new ShopStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ShopStore
}
