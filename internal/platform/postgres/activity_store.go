package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// PostgresActivityLogStore implements the store.ActivityLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresActivityLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityLogStore creates a new PostgreSQL implementation of
// the ActivityLogStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresActivityLogStore(db store.DBTX, logger *slog.Logger) *PostgresActivityLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_log_store")),
	}
}

// Ensure PostgresActivityLogStore implements store.ActivityLogStore interface
var _ store.ActivityLogStore = (*PostgresActivityLogStore)(nil)

// Append implements store.ActivityLogStore.Append
func (s *PostgresActivityLogStore) Append(ctx context.Context, entry *domain.ActivityLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO activity_logs (id, shop_id, level, operation, product_id,
			product_title, message, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ShopID,
		entry.Level,
		entry.Operation,
		entry.ProductID,
		entry.ProductTitle,
		entry.Message,
		entry.Timestamp,
	)
	if err != nil {
		log.Error("failed to append activity log entry",
			slog.String("error", err.Error()),
			slog.String("shop_id", entry.ShopID.String()),
			slog.String("operation", entry.Operation))
		return MapError(err)
	}

	return nil
}

// WithTx implements store.ActivityLogStore.WithTx
func (s *PostgresActivityLogStore) WithTx(tx *sql.Tx) store.ActivityLogStore {
	return &PostgresActivityLogStore{db: tx, logger: s.logger}
}
