package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing shop authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token scoped to a shop.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, shopID uuid.UUID) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims containing the shop identity if the token is valid,
	// or an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for shop tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// ShopID is the unique identifier of the shop the token was issued for.
	// Every API operation is scoped by it; there is no cross-shop access.
	ShopID uuid.UUID `json:"sid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
