package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
	"github.com/phrazzld/faqgen-api/internal/store"
)

const shopColumns = `id, domain, name, password_hash, is_active, created_at, updated_at`

// PostgresShopStore implements the store.ShopStore interface
// using a PostgreSQL database as the storage backend.
type PostgresShopStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresShopStore creates a new PostgreSQL implementation of the
// ShopStore interface. If logger is nil, a default logger will be used.
func NewPostgresShopStore(db store.DBTX, logger *slog.Logger) *PostgresShopStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresShopStore{
		db:     db,
		logger: logger.With(slog.String("component", "shop_store")),
	}
}

// Ensure PostgresShopStore implements store.ShopStore interface
var _ store.ShopStore = (*PostgresShopStore)(nil)

// Create implements store.ShopStore.Create
// Returns store.ErrShopDomainExists if the domain is already registered.
func (s *PostgresShopStore) Create(ctx context.Context, shop *domain.Shop) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := shop.Validate(); err != nil {
		log.Warn("shop validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO shops (` + shopColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		shop.ID,
		shop.Domain,
		shop.Name,
		shop.PasswordHash,
		shop.IsActive,
		shop.CreatedAt,
		shop.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err, "") {
			return store.ErrShopDomainExists
		}
		log.Error("failed to create shop",
			slog.String("error", err.Error()),
			slog.String("shop_id", shop.ID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ShopStore.GetByID
func (s *PostgresShopStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`
	return s.scanShop(s.db.QueryRowContext(ctx, query, id))
}

// GetByDomain implements store.ShopStore.GetByDomain
func (s *PostgresShopStore) GetByDomain(
	ctx context.Context,
	shopDomain string,
) (*domain.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE domain = $1`
	return s.scanShop(s.db.QueryRowContext(ctx, query, shopDomain))
}

// WithTx implements store.ShopStore.WithTx
func (s *PostgresShopStore) WithTx(tx *sql.Tx) store.ShopStore {
	return &PostgresShopStore{db: tx, logger: s.logger}
}

func (s *PostgresShopStore) scanShop(row *sql.Row) (*domain.Shop, error) {
	var shop domain.Shop
	err := row.Scan(
		&shop.ID,
		&shop.Domain,
		&shop.Name,
		&shop.PasswordHash,
		&shop.IsActive,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrShopNotFound
		}
		return nil, MapError(err)
	}
	return &shop, nil
}
