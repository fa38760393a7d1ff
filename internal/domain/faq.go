package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Supported content languages. French is the primary language; a provider
// response without language keys is treated as French-only content.
const (
	LanguageFrench  = "fr"
	LanguageEnglish = "en"
	LanguageSpanish = "es"
)

// Common validation errors for FAQ
var (
	ErrEmptyFAQID        = errors.New("FAQ ID cannot be empty")
	ErrEmptyFAQProductID = errors.New("FAQ product ID cannot be empty")
	ErrNoFAQContent      = errors.New("FAQ must contain at least one question/answer pair")
)

// QA is a single question/answer pair in one language.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// IsValid reports whether both sides of the pair are present.
// Entries failing this check are dropped silently during merging.
func (qa QA) IsValid() bool {
	return qa.Question != "" && qa.Answer != ""
}

// FAQ is the generated content record for one product: per-language
// question/answer lists plus generation metadata. At most one active record
// exists per product; regeneration overwrites it (last write wins, no
// versioning or archival).
type FAQ struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`

	// QuestionsAnswers holds the primary-language (French) entries.
	QuestionsAnswers   []QA `json:"questions_answers"`
	QuestionsAnswersEN []QA `json:"questions_answers_en"`
	QuestionsAnswersES []QA `json:"questions_answers_es"`

	// NumQuestions counts the primary-language entries only.
	NumQuestions int `json:"num_questions"`

	IsActive bool `json:"is_active"`

	GenerationDurationSeconds int `json:"generation_duration_seconds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFAQ creates an active FAQ record for a product from already-filtered
// per-language lists. Returns an error if every list is empty.
func NewFAQ(productID uuid.UUID, fr, en, es []QA) (*FAQ, error) {
	if productID == uuid.Nil {
		return nil, ErrEmptyFAQProductID
	}
	if len(fr) == 0 && len(en) == 0 && len(es) == 0 {
		return nil, ErrNoFAQContent
	}

	now := time.Now().UTC()
	return &FAQ{
		ID:                 uuid.New(),
		ProductID:          productID,
		QuestionsAnswers:   fr,
		QuestionsAnswersEN: en,
		QuestionsAnswersES: es,
		NumQuestions:       len(fr),
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Validate checks if the FAQ has valid data.
func (f *FAQ) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFAQID
	}
	if f.ProductID == uuid.Nil {
		return ErrEmptyFAQProductID
	}
	if len(f.QuestionsAnswers) == 0 && len(f.QuestionsAnswersEN) == 0 &&
		len(f.QuestionsAnswersES) == 0 {
		return ErrNoFAQContent
	}
	return nil
}
