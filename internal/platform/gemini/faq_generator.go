package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/faqgen-api/internal/config"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/generation"
	"google.golang.org/genai"
)

//go:embed default_prompt.tmpl
var defaultPromptTemplate string

// GeminiFAQGenerator implements the generation.FAQGenerator interface using
// Google's Gemini API to generate multilingual FAQ content for products.
type GeminiFAQGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// Ensure GeminiFAQGenerator implements generation.FAQGenerator
var _ generation.FAQGenerator = (*GeminiFAQGenerator)(nil)

// NewGeminiFAQGenerator creates a new instance of GeminiFAQGenerator.
//
// The prompt template is the built-in one unless cfg.PromptTemplatePath
// points to an override file. Returns generation.ErrInvalidConfig for any
// configuration problem so callers can distinguish setup failures from
// runtime ones.
func NewGeminiFAQGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiFAQGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	templateContent := defaultPromptTemplate
	if cfg.PromptTemplatePath != "" {
		raw, err := os.ReadFile(cfg.PromptTemplatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, cfg.PromptTemplatePath, err)
		}
		templateContent = string(raw)
	}

	promptTemplate, err := template.New("faq").Parse(templateContent)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiFAQGenerator{
		logger:         logger.With(slog.String("component", "gemini_faq_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateFAQ implements generation.FAQGenerator.GenerateFAQ.
func (g *GeminiFAQGenerator) GenerateFAQ(
	ctx context.Context,
	product *domain.Product,
	maxQuestions int,
) (*generation.FAQResponse, error) {
	prompt, err := g.createPrompt(ctx, product, maxQuestions)
	if err != nil {
		return nil, err
	}

	return g.callGeminiWithRetry(ctx, prompt)
}

// createPrompt generates a prompt string from the template with the product
// data. Returns an error if the product is unusable or the template
// execution fails.
func (g *GeminiFAQGenerator) createPrompt(
	ctx context.Context,
	product *domain.Product,
	maxQuestions int,
) (string, error) {
	if product == nil {
		return "", ErrNilProduct
	}
	if product.Title == "" {
		return "", ErrEmptyProductTitle
	}
	if maxQuestions < 1 {
		maxQuestions = 1
	}

	data := promptData{
		Title:        product.Title,
		Description:  product.BodyHTML,
		Vendor:       product.Vendor,
		ProductType:  product.ProductType,
		MaxQuestions: maxQuestions,
	}

	g.logger.DebugContext(ctx, "Generating prompt from template",
		"product_id", product.ID.String(),
		"max_questions", maxQuestions)

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential
// backoff retry logic.
//
// It attempts the call up to config.MaxRetries+1 times, using exponential
// backoff with jitter between retries for transient errors. Permanent
// errors (content blocked by safety filters, unparseable payloads) are
// returned immediately without retrying.
func (g *GeminiFAQGenerator) callGeminiWithRetry(
	ctx context.Context,
	prompt string,
) (*generation.FAQResponse, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	attempt := 0
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "Invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "Invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt <= maxRetries {
		attemptNum := attempt + 1 // For logging (1-based)
		g.logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		var response *generation.FAQResponse
		var isTransientError bool

		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			// Assume transient error by default for transport failures
			isTransientError = true
			g.logger.ErrorContext(ctx, "Gemini API call error",
				"error", err,
				"attempt", attemptNum)
		} else if resp == nil {
			err = fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
		} else if len(resp.Candidates) == 0 {
			err = fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
		} else if resp.Candidates[0].Content == nil {
			err = fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
		} else if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
			err = fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
		} else {
			text := responseText(resp.Candidates[0].Content)

			var parsed generation.FAQResponse
			if err = json.Unmarshal([]byte(stripMarkdownFences(text)), &parsed); err != nil {
				err = fmt.Errorf("%w: failed to parse JSON response: %v",
					generation.ErrInvalidResponse, err)
			} else {
				response = &parsed
			}
		}

		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful",
				"attempt", attemptNum)
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			g.logger.WarnContext(ctx, "Permanent error occurred, not retrying",
				"error_type", err)
			return nil, err
		}

		if attempt >= maxRetries {
			g.logger.WarnContext(ctx, "Maximum retry attempts reached",
				"max_retries", maxRetries)
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		if !isTransientError {
			g.logger.WarnContext(ctx, "Non-transient error occurred, not retrying")
			return nil, err
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delaySeconds := backoffSeconds * jitterFactor
		delay := time.Duration(delaySeconds * float64(time.Second))

		g.logger.InfoContext(ctx, "Retrying after delay",
			"attempt", attemptNum,
			"delay_seconds", delaySeconds)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}

		attempt++
	}

	return nil, fmt.Errorf("%w: failed after %d attempts",
		generation.ErrTransientFailure, attempt)
}

// responseText concatenates the text parts of a candidate's content.
// Non-text parts (inline data, function calls) are skipped.
func responseText(content *genai.Content) string {
	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// stripMarkdownFences removes a surrounding markdown code fence from the
// model output. Gemini often wraps JSON payloads in ```json fences even
// when told not to.
func stripMarkdownFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
