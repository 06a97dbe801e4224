package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Quota      QuotaConfig      `mapstructure:"quota"      validate:"required"`
	Summarizer SummarizerConfig `mapstructure:"summarizer" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}

// QuotaConfig holds the word ceilings for each session tier and the upload
// size ceiling. The defaults are the reference policy and are not negotiated
// at runtime.
type QuotaConfig struct {
	AnonymousWordLimit     int   `mapstructure:"anonymous_word_limit"     validate:"required,gt=0"`
	AuthenticatedWordLimit int   `mapstructure:"authenticated_word_limit" validate:"required,gtefield=AnonymousWordLimit"`
	MaxUploadBytes         int64 `mapstructure:"max_upload_bytes"         validate:"required,gt=0"`
}

// SummarizerConfig selects and configures the backend behind POST /summarize.
type SummarizerConfig struct {
	Backend           string `mapstructure:"backend"             validate:"required,oneof=gemini extractive"`
	GeminiAPIKey      string `mapstructure:"gemini_api_key"      validate:"required_if=Backend gemini"`
	ModelName         string `mapstructure:"model_name"          validate:"required_if=Backend gemini"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
	CacheSize         int    `mapstructure:"cache_size"          validate:"gte=0"`
}
