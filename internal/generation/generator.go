package generation

import (
	"context"

	"github.com/phrazzld/faqgen-api/internal/domain"
)

// FAQGenerator defines the interface for generating FAQ content for one
// catalog product. This interface is the seam between the job engine and
// external AI/LLM services; the worker never talks to a provider directly.
type FAQGenerator interface {
	// GenerateFAQ asks the provider for up to maxQuestions question/answer
	// pairs per language for the given product. The returned response has
	// not been validated; callers filter and merge it (see the FAQ
	// service). The context carries cancellation: implementations should
	// abandon the call when it is done.
	//
	// Errors are provider/transport failures (see errors.go). A response
	// with unusable content is not an error at this boundary.
	GenerateFAQ(ctx context.Context, product *domain.Product, maxQuestions int) (*FAQResponse, error)
}
