package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscription(price float64, createdAt time.Time, features map[string]any) *domain.Subscription {
	return &domain.Subscription{
		ID:     uuid.New(),
		ShopID: uuid.New(),
		Status: domain.SubscriptionStatusActive,
		Plan: &domain.Plan{
			ID:       uuid.New(),
			Name:     "plan",
			Price:    price,
			Features: features,
			IsActive: true,
		},
		CreatedAt: createdAt,
	}
}

func TestResolveForShopNoSubscription(t *testing.T) {
	t.Parallel()

	svc, err := NewEntitlementService(&mockSubscriptionStore{}, 3, nil)
	require.NoError(t, err)

	ent, err := svc.ResolveForShop(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 3, ent.MaxAIQuestions)
	assert.False(t, ent.BulkEligible)
}

func TestResolveForShopSingleSubscription(t *testing.T) {
	t.Parallel()

	sub := subscription(29.90, time.Now(), map[string]any{
		domain.FeatureMaxAIQuestions: float64(10),
		domain.FeatureBulkGeneration: true,
	})
	svc, err := NewEntitlementService(&mockSubscriptionStore{
		subscriptions: []*domain.Subscription{sub},
	}, 3, nil)
	require.NoError(t, err)

	ent, err := svc.ResolveForShop(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 10, ent.MaxAIQuestions)
	assert.True(t, ent.BulkEligible)
}

func TestResolveForShopPicksHighestPricedPlan(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cheap := subscription(9.90, now, map[string]any{
		domain.FeatureMaxAIQuestions: float64(5),
	})
	expensive := subscription(49.90, now.Add(-time.Hour), map[string]any{
		domain.FeatureMaxAIQuestions: float64(15),
		domain.FeatureBulkGeneration: true,
	})

	svc, err := NewEntitlementService(&mockSubscriptionStore{
		subscriptions: []*domain.Subscription{cheap, expensive},
	}, 3, nil)
	require.NoError(t, err)

	ent, err := svc.ResolveForShop(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 15, ent.MaxAIQuestions)
	assert.True(t, ent.BulkEligible)
}

func TestResolveForShopBreaksPriceTieByRecency(t *testing.T) {
	t.Parallel()

	now := time.Now()
	older := subscription(19.90, now.Add(-time.Hour), map[string]any{
		domain.FeatureMaxAIQuestions: float64(5),
	})
	newer := subscription(19.90, now, map[string]any{
		domain.FeatureMaxAIQuestions: float64(8),
	})

	svc, err := NewEntitlementService(&mockSubscriptionStore{
		subscriptions: []*domain.Subscription{older, newer},
	}, 3, nil)
	require.NoError(t, err)

	ent, err := svc.ResolveForShop(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 8, ent.MaxAIQuestions)
}

func TestResolveForShopPlanWithoutFeatures(t *testing.T) {
	t.Parallel()

	sub := subscription(9.90, time.Now(), nil)
	svc, err := NewEntitlementService(&mockSubscriptionStore{
		subscriptions: []*domain.Subscription{sub},
	}, 3, nil)
	require.NoError(t, err)

	ent, err := svc.ResolveForShop(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 3, ent.MaxAIQuestions)
	assert.False(t, ent.BulkEligible)
}

func TestResolveForShopStoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	svc, err := NewEntitlementService(&mockSubscriptionStore{err: storeErr}, 3, nil)
	require.NoError(t, err)

	_, err = svc.ResolveForShop(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storeErr)
}

func TestNewEntitlementServiceValidation(t *testing.T) {
	t.Parallel()

	_, err := NewEntitlementService(nil, 3, nil)
	assert.Error(t, err)

	_, err = NewEntitlementService(&mockSubscriptionStore{}, 0, nil)
	assert.Error(t, err)
}
