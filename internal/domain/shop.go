package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Shop
var (
	ErrEmptyShopID     = errors.New("shop ID cannot be empty")
	ErrEmptyShopDomain = errors.New("shop domain cannot be empty")
)

// Shop represents a tenant: an isolated store account owning its own
// catalog products, FAQ content, subscriptions, and bulk jobs.
type Shop struct {
	ID           uuid.UUID `json:"id"`
	Domain       string    `json:"domain"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewShop creates a new active Shop with a generated ID.
// Returns an error if validation fails.
func NewShop(shopDomain, name, passwordHash string) (*Shop, error) {
	now := time.Now().UTC()
	shop := &Shop{
		ID:           uuid.New(),
		Domain:       shopDomain,
		Name:         name,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := shop.Validate(); err != nil {
		return nil, err
	}
	return shop, nil
}

// Validate checks if the Shop has valid data.
func (s *Shop) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyShopID
	}
	if s.Domain == "" {
		return ErrEmptyShopDomain
	}
	return nil
}
