package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLevel classifies an audit log entry.
type ActivityLevel string

// Possible activity levels.
const (
	ActivityLevelInfo    ActivityLevel = "info"
	ActivityLevelWarning ActivityLevel = "warning"
	ActivityLevelError   ActivityLevel = "error"
	ActivityLevelSuccess ActivityLevel = "success"
)

// Audit operation names recorded by the bulk engine.
const (
	OperationGenerateFAQBulk = "generate_faq_bulk"
)

// ActivityLog is one append-only audit event. Entries are never updated or
// deleted by this service; retention is an operator concern.
type ActivityLog struct {
	ID        uuid.UUID     `json:"id"`
	ShopID    uuid.UUID     `json:"shop_id"`
	Level     ActivityLevel `json:"level"`
	Operation string        `json:"operation"`

	// ProductID and ProductTitle reference the item an event concerns,
	// when it concerns one.
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	ProductTitle *string    `json:"product_title,omitempty"`

	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewActivityLog creates an audit event for a shop.
func NewActivityLog(shopID uuid.UUID, level ActivityLevel, operation, message string) *ActivityLog {
	return &ActivityLog{
		ID:        uuid.New(),
		ShopID:    shopID,
		Level:     level,
		Operation: operation,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// WithProduct attaches a product reference to the event.
func (a *ActivityLog) WithProduct(productID uuid.UUID, title string) *ActivityLog {
	a.ProductID = &productID
	a.ProductTitle = &title
	return a
}
