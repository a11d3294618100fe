package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgorski/brief-analyzer/internal/registry"
)

func setValidEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/briefs")
	t.Setenv("CSRF_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("SESSION_DURATION_HOURS", "")
	t.Setenv("SESSION_COOKIE_NAME", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
}

func TestLoadDefaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "brief_analyzer_session", cfg.Security.SessionCookieName)
	assert.Equal(t, 24*time.Hour, cfg.Security.SessionDuration)
	assert.False(t, cfg.Security.SecureCookies)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	setValidEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestLoadRejectsShortCSRFKey(t *testing.T) {
	setValidEnv(t)
	t.Setenv("CSRF_KEY", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestLoadRequiresSomeProviderKey(t *testing.T) {
	setValidEnv(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one of")
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	setValidEnv(t)
	t.Setenv("APP_ENV", "qa")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV must be one of")
}

func TestLoadRejectsBadSessionHours(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SESSION_DURATION_HOURS", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_DURATION_HOURS")
}

func TestProviderCredential(t *testing.T) {
	p := ProviderConfig{
		OpenAIAPIKey: "sk-openai",
		GoogleAPIKey: "g-key",
	}

	key, ok := p.Credential(registry.ProviderOpenAI)
	assert.True(t, ok)
	assert.Equal(t, "sk-openai", key)

	key, ok = p.Credential(registry.ProviderGoogle)
	assert.True(t, ok)
	assert.Equal(t, "g-key", key)

	_, ok = p.Credential(registry.ProviderAnthropic)
	assert.False(t, ok)

	_, ok = p.Credential(registry.ProviderID("unknown"))
	assert.False(t, ok)
}
