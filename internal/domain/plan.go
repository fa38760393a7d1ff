package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan feature keys stored in the features JSON document.
const (
	FeatureMaxAIQuestions = "max_ai_questions"
	FeatureBulkGeneration = "bulk_generation"
)

// Plan is a purchasable bundle of numeric and boolean limits.
// Features is a free-form document (e.g. {"max_ai_questions": 10,
// "bulk_generation": true}) so plans can gain limits without migrations.
type Plan struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Price    float64        `json:"price"`
	Currency string         `json:"currency"`
	Features map[string]any `json:"features"`
	IsActive bool           `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionStatus represents the billing state of a subscription.
type SubscriptionStatus string

// Possible subscription status values.
const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusFrozen    SubscriptionStatus = "frozen"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusPending   SubscriptionStatus = "pending"
)

// Subscription links a shop to a plan. A shop can accumulate several rows
// over its lifetime; entitlement resolution picks the highest-value active
// one rather than assuming uniqueness.
type Subscription struct {
	ID     uuid.UUID          `json:"id"`
	ShopID uuid.UUID          `json:"shop_id"`
	Plan   *Plan              `json:"plan"`
	Status SubscriptionStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// Entitlement is the resolved set of generation limits for one shop,
// derived from its current plan.
type Entitlement struct {
	// MaxAIQuestions is the per-product question budget for generation.
	MaxAIQuestions int

	// BulkEligible grants access to the bulk generation engine.
	BulkEligible bool
}

// EntitlementFromPlan derives an entitlement from a plan's feature document.
// Missing or malformed features fall back to the provided default question
// budget and no bulk access.
func EntitlementFromPlan(plan *Plan, defaultMaxQuestions int) Entitlement {
	ent := Entitlement{MaxAIQuestions: defaultMaxQuestions}
	if plan == nil || plan.Features == nil {
		return ent
	}

	// JSON numbers decode as float64.
	switch v := plan.Features[FeatureMaxAIQuestions].(type) {
	case float64:
		if v > 0 {
			ent.MaxAIQuestions = int(v)
		}
	case int:
		if v > 0 {
			ent.MaxAIQuestions = v
		}
	}

	if eligible, ok := plan.Features[FeatureBulkGeneration].(bool); ok {
		ent.BulkEligible = eligible
	}

	return ent
}
