package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// PostgresSubscriptionStore implements the store.SubscriptionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSubscriptionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubscriptionStore creates a new PostgreSQL implementation of
// the SubscriptionStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresSubscriptionStore(db store.DBTX, logger *slog.Logger) *PostgresSubscriptionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubscriptionStore{
		db:     db,
		logger: logger.With(slog.String("component", "subscription_store")),
	}
}

// Ensure PostgresSubscriptionStore implements store.SubscriptionStore interface
var _ store.SubscriptionStore = (*PostgresSubscriptionStore)(nil)

// FindActiveByShop implements store.SubscriptionStore.FindActiveByShop
// Plans come back joined so entitlement resolution needs no second query.
func (s *PostgresSubscriptionStore) FindActiveByShop(
	ctx context.Context,
	shopID uuid.UUID,
) ([]*domain.Subscription, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT s.id, s.shop_id, s.status, s.created_at,
			p.id, p.name, p.price, p.currency, p.features, p.is_active, p.created_at
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.shop_id = $1 AND s.status = $2
	`
	rows, err := s.db.QueryContext(ctx, query, shopID, domain.SubscriptionStatusActive)
	if err != nil {
		log.Error("failed to query subscriptions",
			slog.String("error", err.Error()),
			slog.String("shop_id", shopID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var subs []*domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		var plan domain.Plan
		var features []byte

		err := rows.Scan(
			&sub.ID,
			&sub.ShopID,
			&sub.Status,
			&sub.CreatedAt,
			&plan.ID,
			&plan.Name,
			&plan.Price,
			&plan.Currency,
			&features,
			&plan.IsActive,
			&plan.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", MapError(err))
		}

		if len(features) > 0 {
			if err := json.Unmarshal(features, &plan.Features); err != nil {
				return nil, fmt.Errorf("failed to unmarshal plan features: %w", err)
			}
		}

		sub.Plan = &plan
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return subs, nil
}

// WithTx implements store.SubscriptionStore.WithTx
func (s *PostgresSubscriptionStore) WithTx(tx *sql.Tx) store.SubscriptionStore {
	return &PostgresSubscriptionStore{db: tx, logger: s.logger}
}
