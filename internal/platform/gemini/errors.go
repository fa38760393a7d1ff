package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrNilProduct is returned when GenerateFAQ is called without a product.
	ErrNilProduct = errors.New("product cannot be nil")

	// ErrEmptyProductTitle is returned when the product has no title to
	// build a prompt from.
	ErrEmptyProductTitle = errors.New("product title cannot be empty")
)
