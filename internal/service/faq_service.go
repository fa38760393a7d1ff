package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/generation"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// ItemOutcome classifies what happened to a single product during bulk
// generation. It is an explicit result, not an error: the worker treats
// every outcome as a normal branch and only storage failures abort a job.
type ItemOutcome int

// Possible per-item outcomes.
const (
	// ItemSuccess means valid content was generated and stored.
	ItemSuccess ItemOutcome = iota

	// ItemTransportFailure means the provider call failed (network, rate
	// limiting, safety block, exhausted retries). Nothing was stored.
	ItemTransportFailure

	// ItemValidationFailure means the provider responded but no usable
	// question/answer pair survived filtering. Nothing was stored.
	ItemValidationFailure
)

// String returns a short label for logs and audit messages.
func (o ItemOutcome) String() string {
	switch o {
	case ItemSuccess:
		return "success"
	case ItemTransportFailure:
		return "transport_failure"
	case ItemValidationFailure:
		return "validation_failure"
	default:
		return "unknown"
	}
}

// ItemResult is the outcome of generating FAQ content for one product.
type ItemResult struct {
	Outcome ItemOutcome

	// QuestionCount is the primary-language question count, set on success.
	QuestionCount int

	// Err carries the underlying cause for failure outcomes.
	Err error
}

// FAQService generates and persists FAQ content for single products.
type FAQService interface {
	// GenerateAndSave runs the full per-product pipeline: call the
	// provider, normalize and filter the response, and upsert the FAQ
	// record. Provider and content problems are reported in the ItemResult;
	// the returned error is non-nil only for storage failures, which
	// callers must treat as fatal to the surrounding job.
	GenerateAndSave(
		ctx context.Context,
		product *domain.Product,
		maxQuestions int,
	) (ItemResult, error)
}

// faqServiceImpl implements the FAQService interface.
type faqServiceImpl struct {
	generator generation.FAQGenerator
	faqStore  store.FAQStore
	logger    *slog.Logger
}

// NewFAQService creates a new FAQService.
// It returns an error if any of the required dependencies are nil.
func NewFAQService(
	generator generation.FAQGenerator,
	faqStore store.FAQStore,
	logger *slog.Logger,
) (FAQService, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: generator cannot be nil", domain.ErrValidation)
	}
	if faqStore == nil {
		return nil, fmt.Errorf("%w: faqStore cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &faqServiceImpl{
		generator: generator,
		faqStore:  faqStore,
		logger:    logger.With(slog.String("component", "faq_service")),
	}, nil
}

// GenerateAndSave implements FAQService.GenerateAndSave.
func (s *faqServiceImpl) GenerateAndSave(
	ctx context.Context,
	product *domain.Product,
	maxQuestions int,
) (ItemResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	start := time.Now()

	response, err := s.generator.GenerateFAQ(ctx, product, maxQuestions)
	if err != nil {
		log.Warn("provider call failed",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return ItemResult{Outcome: ItemTransportFailure, Err: err}, nil
	}

	fr, en, es := response.Normalize()

	faq, err := domain.NewFAQ(product.ID, fr, en, es)
	if err != nil {
		if errors.Is(err, domain.ErrNoFAQContent) {
			log.Warn("no usable content in provider response",
				slog.String("product_id", product.ID.String()))
			return ItemResult{Outcome: ItemValidationFailure, Err: err}, nil
		}
		// Anything else here is a programming error, not provider noise.
		return ItemResult{}, fmt.Errorf("failed to build FAQ record: %w", err)
	}
	faq.GenerationDurationSeconds = int(time.Since(start).Seconds())

	if err := s.faqStore.Upsert(ctx, faq); err != nil {
		log.Error("failed to store FAQ record",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return ItemResult{}, fmt.Errorf("failed to store FAQ record: %w", err)
	}

	log.Debug("generated and stored FAQ",
		slog.String("product_id", product.ID.String()),
		slog.Int("num_questions", faq.NumQuestions),
		slog.Int("duration_seconds", faq.GenerationDurationSeconds))

	return ItemResult{Outcome: ItemSuccess, QuestionCount: faq.NumQuestions}, nil
}
