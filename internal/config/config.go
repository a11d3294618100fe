package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/rgorski/brief-analyzer/internal/registry"
)

type Config struct {
	// Server config
	Server ServerConfig

	// database config
	Database DatabaseConfig

	// session and CSRF config
	Security SecurityConfig

	// model provider credentials
	Providers ProviderConfig

	// logging config
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address     string
	Environment string // development, staging, production
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	CSRFKey           string
	SessionCookieName string
	SessionDuration   time.Duration
	SecureCookies     bool // true in production
}

// ProviderConfig holds the per-provider API keys. Each key is optional;
// models of a provider without a key are rejected at request time, not at
// startup.
type ProviderConfig struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string
	Format string // text or json
}

// Credential returns the API key configured for a provider. It satisfies
// the credential lookup the analysis orchestrator depends on.
func (p ProviderConfig) Credential(provider registry.ProviderID) (string, bool) {
	var key string
	switch provider {
	case registry.ProviderOpenAI:
		key = p.OpenAIAPIKey
	case registry.ProviderAnthropic:
		key = p.AnthropicAPIKey
	case registry.ProviderGoogle:
		key = p.GoogleAPIKey
	}
	return key, key != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	// This is useful for local development but not required in production
	// where env vars are typically set by the orchestration platform
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Address:     getEnvOrDefault("SERVER_ADDRESS", ":8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
	}

	cfg.Database = DatabaseConfig{
		URL: os.Getenv("DATABASE_URL"),
	}

	sessionHours, err := strconv.Atoi(getEnvOrDefault("SESSION_DURATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_DURATION_HOURS: %w", err)
	}

	cfg.Security = SecurityConfig{
		CSRFKey:           os.Getenv("CSRF_KEY"),
		SessionCookieName: getEnvOrDefault("SESSION_COOKIE_NAME", "brief_analyzer_session"),
		SessionDuration:   time.Duration(sessionHours) * time.Hour,
		SecureCookies:     cfg.Server.Environment == "production",
	}

	cfg.Providers = ProviderConfig{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
	}

	cfg.Logging = LoggingConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present and valid.
// Failing at startup beats failing later when a missing value is accessed.
func (c *Config) validate() error {
	var errs []error

	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	if c.Security.CSRFKey == "" {
		errs = append(errs, errors.New("CSRF_KEY is required"))
	} else if len(c.Security.CSRFKey) < 32 {
		errs = append(errs, errors.New("CSRF_KEY must be at least 32 characters"))
	}

	if c.Security.SessionDuration <= 0 {
		errs = append(errs, errors.New("SESSION_DURATION_HOURS must be positive"))
	}

	// Provider keys are individually optional, but a deployment with none
	// of them cannot analyze anything.
	if c.Providers.OpenAIAPIKey == "" && c.Providers.AnthropicAPIKey == "" && c.Providers.GoogleAPIKey == "" {
		errs = append(errs, errors.New("at least one of OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY is required"))
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json (got: %s)", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return nil
}

// getEnvOrDefault returns the .env value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// MustLoad is like Load but panics on error.
// Used in main() where its required to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
