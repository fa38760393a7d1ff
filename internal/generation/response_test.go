package generation

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFAQResponseUnmarshalLanguageMap(t *testing.T) {
	t.Parallel()

	payload := `{
		"fr": [{"question": "Quelle taille ?", "answer": "Taille unique."}],
		"en": [{"question": "What size?", "answer": "One size."}],
		"es": [{"question": "Que talla?", "answer": "Talla unica."}]
	}`

	var resp FAQResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Shape != ShapeLanguages {
		t.Errorf("expected ShapeLanguages, got %v", resp.Shape)
	}

	fr, en, es := resp.Normalize()
	if len(fr) != 1 || len(en) != 1 || len(es) != 1 {
		t.Errorf("expected one entry per language, got fr=%d en=%d es=%d",
			len(fr), len(en), len(es))
	}
	if fr[0].Question != "Quelle taille ?" {
		t.Errorf("unexpected primary question: %q", fr[0].Question)
	}
}

func TestFAQResponseUnmarshalFlatList(t *testing.T) {
	t.Parallel()

	payload := `[
		{"question": "Quelle taille ?", "answer": "Taille unique."},
		{"question": "Livraison ?", "answer": "Sous 48h."}
	]`

	var resp FAQResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Shape != ShapeFlat {
		t.Errorf("expected ShapeFlat, got %v", resp.Shape)
	}

	fr, en, es := resp.Normalize()
	if len(fr) != 2 {
		t.Errorf("expected 2 primary entries, got %d", len(fr))
	}
	if en != nil || es != nil {
		t.Error("flat response must not populate secondary languages")
	}
}

func TestFAQResponsePartialLanguages(t *testing.T) {
	t.Parallel()

	// Only the primary language present; missing keys are empty, not errors.
	payload := `{"fr": [{"question": "Q", "answer": "A"}]}`

	var resp FAQResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fr, en, es := resp.Normalize()
	if len(fr) != 1 {
		t.Errorf("expected 1 primary entry, got %d", len(fr))
	}
	if len(en) != 0 || len(es) != 0 {
		t.Error("absent language keys must normalize to empty lists")
	}
	if resp.IsEmpty() {
		t.Error("response with primary content must not be empty")
	}
}

func TestFAQResponseFiltersIncompleteEntries(t *testing.T) {
	t.Parallel()

	payload := `{
		"fr": [
			{"question": "Complete", "answer": "Yes"},
			{"question": "Missing answer", "answer": ""},
			{"question": "", "answer": "Missing question"}
		],
		"en": [{"question": "", "answer": ""}]
	}`

	var resp FAQResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fr, en, _ := resp.Normalize()
	if len(fr) != 1 {
		t.Errorf("expected 1 surviving primary entry, got %d", len(fr))
	}
	if len(en) != 0 {
		t.Errorf("expected all english entries dropped, got %d", len(en))
	}
}

func TestFAQResponseAllEntriesInvalid(t *testing.T) {
	t.Parallel()

	payload := `{"fr": [{"question": "Only question", "answer": ""}]}`

	var resp FAQResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsEmpty() {
		t.Error("expected response with no valid entries to be empty")
	}
}

func TestFAQResponseUnmarshalErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
	}{
		{"empty", ``},
		{"whitespace", `   `},
		{"scalar", `"not a payload"`},
		{"malformed object", `{"fr": [}`},
		{"malformed array", `[{"question": }]`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// Call UnmarshalJSON directly: json.Unmarshal rejects malformed
			// input before the custom unmarshaler runs, and callers that
			// classify failures need the sentinel from this path.
			var resp FAQResponse
			err := resp.UnmarshalJSON([]byte(tc.payload))
			if !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("expected ErrInvalidResponse, got %v", err)
			}
		})
	}
}

func TestFAQResponseUnknownLanguageIgnored(t *testing.T) {
	t.Parallel()

	payload := `{
		"fr": [{"question": "Q", "answer": "A"}],
		"de": [{"question": "Frage", "answer": "Antwort"}]
	}`

	var resp FAQResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fr, en, es := resp.Normalize()
	if len(fr) != 1 || len(en) != 0 || len(es) != 0 {
		t.Errorf("unsupported languages must be dropped, got fr=%d en=%d es=%d",
			len(fr), len(en), len(es))
	}
}
