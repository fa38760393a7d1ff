package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
	"github.com/phrazzld/faqgen-api/internal/store"
)

const productColumns = `id, shop_id, external_id, title, body_html, vendor,
		product_type, has_faq, created_at, updated_at`

// PostgresProductStore implements the store.ProductStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a new PostgreSQL implementation of the
// ProductStore interface. If logger is nil, a default logger will be used.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

// Ensure PostgresProductStore implements store.ProductStore interface
var _ store.ProductStore = (*PostgresProductStore)(nil)

// FindByShop implements store.ProductStore.FindByShop
// Rows come back ordered by creation time then ID so a bulk run walks the
// catalog in a stable order.
func (s *PostgresProductStore) FindByShop(
	ctx context.Context,
	shopID uuid.UUID,
	missingFAQOnly bool,
) ([]*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE shop_id = $1
	`
	if missingFAQOnly {
		query += ` AND has_faq = FALSE`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, shopID)
	if err != nil {
		log.Error("failed to query products",
			slog.String("error", err.Error()),
			slog.String("shop_id", shopID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID,
			&p.ShopID,
			&p.ExternalID,
			&p.Title,
			&p.BodyHTML,
			&p.Vendor,
			&p.ProductType,
			&p.HasFAQ,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", MapError(err))
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return products, nil
}

// CountByShop implements store.ProductStore.CountByShop
func (s *PostgresProductStore) CountByShop(
	ctx context.Context,
	shopID uuid.UUID,
	missingFAQOnly bool,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT COUNT(*) FROM products WHERE shop_id = $1`
	if missingFAQOnly {
		query += ` AND has_faq = FALSE`
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, shopID).Scan(&count); err != nil {
		log.Error("failed to count products",
			slog.String("error", err.Error()),
			slog.String("shop_id", shopID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// GetByID implements store.ProductStore.GetByID
// Returns store.ErrProductNotFound if the product does not exist.
func (s *PostgresProductStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p domain.Product
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.ShopID,
		&p.ExternalID,
		&p.Title,
		&p.BodyHTML,
		&p.Vendor,
		&p.ProductType,
		&p.HasFAQ,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		return nil, MapError(err)
	}

	return &p, nil
}

// SetHasFAQ implements store.ProductStore.SetHasFAQ
// Returns store.ErrProductNotFound if the product does not exist.
func (s *PostgresProductStore) SetHasFAQ(ctx context.Context, id uuid.UUID, hasFAQ bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE products
		SET has_faq = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, hasFAQ)
	if err != nil {
		log.Error("failed to update product has_faq flag",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "product"); err != nil {
		return store.ErrProductNotFound
	}
	return nil
}

// WithTx implements store.ProductStore.WithTx
func (s *PostgresProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return &PostgresProductStore{db: tx, logger: s.logger}
}
