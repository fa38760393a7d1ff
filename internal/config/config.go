package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Bulk     BulkConfig     `mapstructure:"bulk" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings for the shop-facing API.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes controls how long issued shop tokens stay valid.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains settings for the FAQ generation provider.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`

	// PromptTemplatePath optionally overrides the built-in prompt template.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`

	MaxRetries        int `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// BulkConfig contains settings for the bulk FAQ generation job engine.
type BulkConfig struct {
	// ItemDelayMs is the pause between consecutive products in a bulk run.
	// It exists purely as a courtesy to the generation provider.
	ItemDelayMs int `mapstructure:"item_delay_ms" validate:"gte=0"`

	// DefaultMaxQuestions is used when a shop has no active subscription
	// or its plan does not specify a question budget.
	DefaultMaxQuestions int `mapstructure:"default_max_questions" validate:"required,gt=0"`

	// WorkerCount is the number of jobs that may execute concurrently.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// QueueSize is the buffer size of the in-memory job queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`
}
