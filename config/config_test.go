package config_test

import (
	"testing"
	"time"

	"tenanthub/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/tenanthub_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := config.Load()

	assert.Equal(t, "postgres://localhost/tenanthub_test", cfg.DBURL)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.AccessTokenTTL)
	assert.True(t, cfg.SecureCookies)

	// defaults
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/tenanthub_test")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := config.Load()

	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.False(t, cfg.SecureCookies)
}

func TestLoadIgnoresMalformedBool(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/tenanthub_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("COOKIE_SECURE", "definitely")

	cfg := config.Load()
	assert.False(t, cfg.SecureCookies)
}
