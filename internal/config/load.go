package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "NOTESY"

// Default values applied before any file or environment source.
const (
	DefaultPort                   = 8080
	DefaultLogLevel               = "info"
	DefaultTokenLifetimeMinutes   = 24 * 60
	DefaultBCryptCost             = 10
	DefaultAnonymousWordLimit     = 500
	DefaultAuthenticatedWordLimit = 1000
	DefaultMaxUploadBytes         = 2 * 1024 * 1024
	DefaultSummarizerBackend      = "extractive"
	DefaultModelName              = "gemini-2.0-flash"
	DefaultMaxRetries             = 3
	DefaultRetryDelaySeconds      = 2
	DefaultCacheSize              = 256
)

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so keys
	// without defaults must be bound explicitly.
	for _, key := range []string{"database.url", "auth.jwt_secret", "summarizer.gemini_api_key"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("auth.token_lifetime_minutes", DefaultTokenLifetimeMinutes)
	v.SetDefault("auth.bcrypt_cost", DefaultBCryptCost)
	v.SetDefault("quota.anonymous_word_limit", DefaultAnonymousWordLimit)
	v.SetDefault("quota.authenticated_word_limit", DefaultAuthenticatedWordLimit)
	v.SetDefault("quota.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("summarizer.backend", DefaultSummarizerBackend)
	v.SetDefault("summarizer.model_name", DefaultModelName)
	v.SetDefault("summarizer.max_retries", DefaultMaxRetries)
	v.SetDefault("summarizer.retry_delay_seconds", DefaultRetryDelaySeconds)
	v.SetDefault("summarizer.cache_size", DefaultCacheSize)
}
