package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// EntitlementService resolves a shop's generation limits from its
// subscriptions.
type EntitlementService interface {
	// ResolveForShop derives the shop's entitlement. A shop with no active
	// subscription gets the default question budget and no bulk access.
	ResolveForShop(ctx context.Context, shopID uuid.UUID) (domain.Entitlement, error)
}

// entitlementServiceImpl implements the EntitlementService interface.
type entitlementServiceImpl struct {
	subscriptionStore   store.SubscriptionStore
	defaultMaxQuestions int
	logger              *slog.Logger
}

// NewEntitlementService creates a new EntitlementService.
// It returns an error if any of the required dependencies are nil.
func NewEntitlementService(
	subscriptionStore store.SubscriptionStore,
	defaultMaxQuestions int,
	logger *slog.Logger,
) (EntitlementService, error) {
	if subscriptionStore == nil {
		return nil, fmt.Errorf("%w: subscriptionStore cannot be nil", domain.ErrValidation)
	}
	if defaultMaxQuestions < 1 {
		return nil, fmt.Errorf("%w: defaultMaxQuestions must be positive", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &entitlementServiceImpl{
		subscriptionStore:   subscriptionStore,
		defaultMaxQuestions: defaultMaxQuestions,
		logger:              logger.With(slog.String("component", "entitlement_service")),
	}, nil
}

// ResolveForShop implements EntitlementService.ResolveForShop.
//
// Shops can hold several active subscriptions at once (e.g. mid-upgrade).
// Resolution is deterministic: the subscription with the highest plan price
// wins, ties broken by most recent creation.
func (s *entitlementServiceImpl) ResolveForShop(
	ctx context.Context,
	shopID uuid.UUID,
) (domain.Entitlement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	subscriptions, err := s.subscriptionStore.FindActiveByShop(ctx, shopID)
	if err != nil {
		log.Error("failed to load active subscriptions",
			slog.String("error", err.Error()),
			slog.String("shop_id", shopID.String()))
		return domain.Entitlement{}, fmt.Errorf("failed to resolve entitlement: %w", err)
	}

	if len(subscriptions) == 0 {
		log.Debug("no active subscription, using defaults",
			slog.String("shop_id", shopID.String()))
		return domain.Entitlement{MaxAIQuestions: s.defaultMaxQuestions}, nil
	}

	best := subscriptions[0]
	for _, sub := range subscriptions[1:] {
		if betterSubscription(sub, best) {
			best = sub
		}
	}

	ent := domain.EntitlementFromPlan(best.Plan, s.defaultMaxQuestions)

	log.Debug("resolved entitlement",
		slog.String("shop_id", shopID.String()),
		slog.Int("max_ai_questions", ent.MaxAIQuestions),
		slog.Bool("bulk_eligible", ent.BulkEligible))

	return ent, nil
}

func betterSubscription(a, b *domain.Subscription) bool {
	aPrice, bPrice := planPrice(a), planPrice(b)
	if aPrice != bPrice {
		return aPrice > bPrice
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func planPrice(sub *domain.Subscription) float64 {
	if sub.Plan == nil {
		return 0
	}
	return sub.Plan.Price
}
