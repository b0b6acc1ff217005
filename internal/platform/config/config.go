package config

import (
	"os"
	"time"
)

// Config captures everything the gateway needs from the environment. The
// upstream base URL replaces the per-screen hardcoded hosts the dashboard
// used to carry; every upstream call shares one timeout policy.
type Config struct {
	Addr        string
	Environment string

	// UpstreamBaseURL is the marketplace backend all resource stores talk to.
	UpstreamBaseURL string
	// UpstreamTimeout applies uniformly to every outbound call.
	UpstreamTimeout time.Duration

	// AdminToken is the shared secret accepted via X-Admin-Token.
	AdminToken string
	// AdminUser / AdminPasswordHash back the /auth/login endpoint. The hash
	// is a bcrypt hash; the plaintext never appears in configuration. Leaving
	// the hash or the signing key unset disables session login entirely, so
	// there is no baked-in development key to forget about in production.
	AdminUser         string
	AdminPasswordHash string
	JWTSigningKey     string
	SessionTTL        time.Duration

	BodyLimitBytes int64
}

const (
	defaultAddr            = ":8080"
	defaultUpstreamBaseURL = "http://localhost:3000"
	defaultUpstreamTimeout = 10 * time.Second
	defaultSessionTTL      = 15 * time.Minute
	defaultBodyLimitBytes  = 32 << 20 // KYC uploads can be a few MB each
)

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:              envOr("MERCATO_ADDR", defaultAddr),
		Environment:       envOr("MERCATO_ENV", "development"),
		UpstreamBaseURL:   envOr("MERCATO_UPSTREAM_URL", defaultUpstreamBaseURL),
		UpstreamTimeout:   durationOr("MERCATO_UPSTREAM_TIMEOUT", defaultUpstreamTimeout),
		AdminToken:        os.Getenv("MERCATO_ADMIN_TOKEN"),
		AdminUser:         envOr("MERCATO_ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("MERCATO_ADMIN_PASSWORD_HASH"),
		JWTSigningKey:     os.Getenv("MERCATO_JWT_SIGNING_KEY"),
		SessionTTL:        durationOr("MERCATO_SESSION_TTL", defaultSessionTTL),
		BodyLimitBytes:    defaultBodyLimitBytes,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
