package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingSessionSecretFailsValidation(t *testing.T) {
	_, err := New(WithDisableFlagsParsing(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-signing-secret")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "http://localhost:8080", cfg.ShortURLBase)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "shortie_session", cfg.SessionCookieName)
	assert.Equal(t, DefaultSessionMaxAge, cfg.SessionMaxAge)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
}

func TestConfigEnvOnly(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-signing-secret")
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("BASE_URL", "http://envonly.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_COOKIE_NAME", "other_session")
	t.Setenv("SESSION_MAX_AGE", "24h")
	t.Setenv("APP_ENV", "production")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.RunAddr)
	assert.Equal(t, "http://envonly.com", cfg.ShortURLBase)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "other_session", cfg.SessionCookieName)
	assert.Equal(t, 24*time.Hour, cfg.SessionMaxAge)
	assert.True(t, cfg.IsProduction())
}

func TestInvalidLogLevelFailsValidation(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-signing-secret")
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := New(WithDisableFlagsParsing(true))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestInvalidAppEnvFailsValidation(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-signing-secret")
	t.Setenv("APP_ENV", "staging")

	_, err := New(WithDisableFlagsParsing(true))
	assert.ErrorIs(t, err, ErrValidation)
}
