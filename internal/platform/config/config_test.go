package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:3000", cfg.UpstreamBaseURL)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Empty(t, cfg.JWTSigningKey, "no baked-in signing key")
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MERCATO_ADDR", ":9999")
	t.Setenv("MERCATO_UPSTREAM_URL", "https://api.marketplace.example")
	t.Setenv("MERCATO_UPSTREAM_TIMEOUT", "3s")
	t.Setenv("MERCATO_ADMIN_TOKEN", "sekrit")
	t.Setenv("MERCATO_JWT_SIGNING_KEY", "hmac-key")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "https://api.marketplace.example", cfg.UpstreamBaseURL)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "sekrit", cfg.AdminToken)
	assert.Equal(t, "hmac-key", cfg.JWTSigningKey)
}

func TestFromEnvBadDurationFallsBack(t *testing.T) {
	t.Setenv("MERCATO_UPSTREAM_TIMEOUT", "not-a-duration")

	cfg := FromEnv()
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
}
