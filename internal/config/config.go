package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"      validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                      int    `mapstructure:"port"                         validate:"required,gt=0,lt=65536"`
	LogLevel                  string `mapstructure:"log_level"                    validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds    int    `mapstructure:"shutdown_timeout_seconds"     validate:"gte=1,lte=300"`
	GenerateRequestsPerMinute int    `mapstructure:"generate_requests_per_minute" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver"                    validate:"required,oneof=sqlite postgres"`
	DSN                    string `mapstructure:"dsn"                       validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

// SRSConfig tunes the scheduling engine.
type SRSConfig struct {
	// QualityRounding is half_up or truncate. Latency and difficulty
	// adjustments stay within 0.3, so under half_up the adjusted quality
	// always equals the submitted rating; truncate lets penalties fail a 3.
	QualityRounding string `mapstructure:"quality_rounding" validate:"required,oneof=half_up truncate"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider            string `mapstructure:"provider"               validate:"required,oneof=heuristic gemini openai"`
	GeminiAPIKey        string `mapstructure:"gemini_api_key"         validate:"required_if=Provider gemini"`
	GeminiModel         string `mapstructure:"gemini_model"`
	OpenAIAPIKey        string `mapstructure:"openai_api_key"         validate:"required_if=Provider openai"`
	OpenAIModel         string `mapstructure:"openai_model"`
	OpenAIBaseURL       string `mapstructure:"openai_base_url"        validate:"omitempty,url"`
	MaxRetries          int    `mapstructure:"max_retries"            validate:"gte=0,lte=10"`
	RetryDelaySeconds   int    `mapstructure:"retry_delay_seconds"    validate:"gte=0,lte=60"`
	MaxCardsPerDocument int    `mapstructure:"max_cards_per_document" validate:"gte=1,lte=200"`
}
