package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// PostgresFAQStore implements the store.FAQStore interface
// using a PostgreSQL database as the storage backend. Per-language lists
// are stored as JSONB columns.
type PostgresFAQStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFAQStore creates a new PostgreSQL implementation of the
// FAQStore interface. If logger is nil, a default logger will be used.
func NewPostgresFAQStore(db store.DBTX, logger *slog.Logger) *PostgresFAQStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFAQStore{
		db:     db,
		logger: logger.With(slog.String("component", "faq_store")),
	}
}

// Ensure PostgresFAQStore implements store.FAQStore interface
var _ store.FAQStore = (*PostgresFAQStore)(nil)

// Upsert implements store.FAQStore.Upsert
// ON CONFLICT (product_id) keeps the record singular per product: a
// regeneration overwrites every per-language list and the question count
// in place.
func (s *PostgresFAQStore) Upsert(ctx context.Context, faq *domain.FAQ) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := faq.Validate(); err != nil {
		log.Warn("FAQ validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("product_id", faq.ProductID.String()))
		return err
	}

	fr, err := json.Marshal(faq.QuestionsAnswers)
	if err != nil {
		return fmt.Errorf("failed to marshal primary-language entries: %w", err)
	}
	en, err := json.Marshal(faq.QuestionsAnswersEN)
	if err != nil {
		return fmt.Errorf("failed to marshal English entries: %w", err)
	}
	es, err := json.Marshal(faq.QuestionsAnswersES)
	if err != nil {
		return fmt.Errorf("failed to marshal Spanish entries: %w", err)
	}

	query := `
		INSERT INTO faqs (id, product_id, questions_answers, questions_answers_en,
			questions_answers_es, num_questions, is_active,
			generation_duration_seconds, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (product_id) DO UPDATE SET
			questions_answers = EXCLUDED.questions_answers,
			questions_answers_en = EXCLUDED.questions_answers_en,
			questions_answers_es = EXCLUDED.questions_answers_es,
			num_questions = EXCLUDED.num_questions,
			generation_duration_seconds = EXCLUDED.generation_duration_seconds,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		faq.ID,
		faq.ProductID,
		fr,
		en,
		es,
		faq.NumQuestions,
		faq.IsActive,
		faq.GenerationDurationSeconds,
		faq.CreatedAt,
		faq.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert FAQ",
			slog.String("error", err.Error()),
			slog.String("product_id", faq.ProductID.String()))
		return MapError(err)
	}

	log.Info("FAQ upserted",
		slog.String("product_id", faq.ProductID.String()),
		slog.Int("num_questions", faq.NumQuestions))
	return nil
}

// GetByProduct implements store.FAQStore.GetByProduct
// Returns store.ErrFAQNotFound if the product has no record.
func (s *PostgresFAQStore) GetByProduct(
	ctx context.Context,
	productID uuid.UUID,
) (*domain.FAQ, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, product_id, questions_answers, questions_answers_en,
			questions_answers_es, num_questions, is_active,
			generation_duration_seconds, created_at, updated_at
		FROM faqs
		WHERE product_id = $1
	`

	var faq domain.FAQ
	var fr, en, es []byte

	err := s.db.QueryRowContext(ctx, query, productID).Scan(
		&faq.ID,
		&faq.ProductID,
		&fr,
		&en,
		&es,
		&faq.NumQuestions,
		&faq.IsActive,
		&faq.GenerationDurationSeconds,
		&faq.CreatedAt,
		&faq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFAQNotFound
		}
		log.Error("failed to get FAQ by product",
			slog.String("error", err.Error()),
			slog.String("product_id", productID.String()))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(fr, &faq.QuestionsAnswers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal primary-language entries: %w", err)
	}
	if err := json.Unmarshal(en, &faq.QuestionsAnswersEN); err != nil {
		return nil, fmt.Errorf("failed to unmarshal English entries: %w", err)
	}
	if err := json.Unmarshal(es, &faq.QuestionsAnswersES); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Spanish entries: %w", err)
	}

	return &faq, nil
}

// WithTx implements store.FAQStore.WithTx
func (s *PostgresFAQStore) WithTx(tx *sql.Tx) store.FAQStore {
	return &PostgresFAQStore{db: tx, logger: s.logger}
}
