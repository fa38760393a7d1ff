package generation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/phrazzld/faqgen-api/internal/domain"
)

// ResponseShape tags which of the two payload shapes the provider returned.
type ResponseShape int

const (
	// ShapeLanguages is a JSON object keyed by language code, each value a
	// list of question/answer pairs.
	ShapeLanguages ResponseShape = iota

	// ShapeFlat is a bare JSON array of question/answer pairs with no
	// language information. Flat content is treated as primary-language
	// (French) only.
	ShapeFlat
)

// FAQResponse is the parsed provider payload. Exactly one of Languages or
// Flat is populated, selected by Shape. Entries have not been filtered;
// call Normalize to get per-language lists ready for a domain.FAQ.
type FAQResponse struct {
	Shape     ResponseShape
	Languages map[string][]domain.QA
	Flat      []domain.QA
}

// UnmarshalJSON accepts either payload shape. The provider is prompted for
// a per-language object, but older prompt variants and model drift still
// produce bare arrays, so both are first-class.
func (r *FAQResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidResponse)
	}

	switch trimmed[0] {
	case '[':
		var flat []domain.QA
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		r.Shape = ShapeFlat
		r.Flat = flat
		r.Languages = nil
		return nil
	case '{':
		var languages map[string][]domain.QA
		if err := json.Unmarshal(trimmed, &languages); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		r.Shape = ShapeLanguages
		r.Languages = languages
		r.Flat = nil
		return nil
	default:
		return fmt.Errorf("%w: expected object or array, got %q", ErrInvalidResponse, trimmed[0])
	}
}

// Normalize merges the response into per-language lists, dropping entries
// that are missing a question or an answer. A flat response maps to the
// primary language with empty secondary lists. All three returned slices
// may be empty; callers decide whether that is a validation failure.
func (r *FAQResponse) Normalize() (fr, en, es []domain.QA) {
	if r.Shape == ShapeFlat {
		return filterValid(r.Flat), nil, nil
	}

	return filterValid(r.Languages[domain.LanguageFrench]),
		filterValid(r.Languages[domain.LanguageEnglish]),
		filterValid(r.Languages[domain.LanguageSpanish])
}

// IsEmpty reports whether normalization yields no usable entries in any
// language.
func (r *FAQResponse) IsEmpty() bool {
	fr, en, es := r.Normalize()
	return len(fr) == 0 && len(en) == 0 && len(es) == 0
}

func filterValid(entries []domain.QA) []domain.QA {
	if len(entries) == 0 {
		return nil
	}
	valid := make([]domain.QA, 0, len(entries))
	for _, qa := range entries {
		if qa.IsValid() {
			valid = append(valid, qa)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}
