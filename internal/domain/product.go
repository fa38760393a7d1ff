package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Product
var (
	ErrEmptyProductID     = errors.New("product ID cannot be empty")
	ErrEmptyProductShopID = errors.New("product shop ID cannot be empty")
	ErrEmptyProductTitle  = errors.New("product title cannot be empty")
)

// Product is a catalog item mirrored from the external commerce platform.
// The bulk engine reads its descriptive attributes and flips HasFAQ after a
// successful generation; everything else is owned by the catalog sync.
type Product struct {
	ID          uuid.UUID `json:"id"`
	ShopID      uuid.UUID `json:"shop_id"`
	ExternalID  string    `json:"external_id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	HasFAQ      bool      `json:"has_faq"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the Product has valid data.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProductID
	}
	if p.ShopID == uuid.Nil {
		return ErrEmptyProductShopID
	}
	if p.Title == "" {
		return ErrEmptyProductTitle
	}
	return nil
}
