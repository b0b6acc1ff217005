// Package auth issues and verifies admin session tokens. It replaces the
// dashboard's old hardcoded login check with a bcrypt-verified credential
// and a short-lived signed session token.
package auth

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "mercato/pkg/domain-errors"
	"mercato/pkg/secrets"
)

// Service verifies the configured admin credential and mints session tokens.
type Service struct {
	username     string
	passwordHash string
	signingKey   []byte
	ttl          time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// New creates an auth service. passwordHash is a bcrypt hash; an empty hash
// or an empty signing key disables session login entirely rather than
// falling back to a well-known development secret.
func New(username, passwordHash, signingKey string, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		username:     username,
		passwordHash: passwordHash,
		signingKey:   []byte(signingKey),
		ttl:          ttl,
		logger:       logger,
		now:          time.Now,
	}
}

// Login checks the credential pair and returns a signed session token with
// its expiry. Wrong username and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(username, password string) (string, time.Time, error) {
	if s.passwordHash == "" || len(s.signingKey) == 0 {
		return "", time.Time{}, dErrors.New(dErrors.CodeUnauthorized, "session login is not configured")
	}
	if username != s.username {
		return "", time.Time{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err := secrets.Verify(password, s.passwordHash); err != nil {
		return "", time.Time{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	expiresAt := s.now().Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		Issuer:    "mercato",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "sign session token")
	}
	return token, expiresAt, nil
}

// VerifyToken checks a session token's signature and expiry. It satisfies
// the middleware.TokenVerifier interface.
func (s *Service) VerifyToken(token string) error {
	if len(s.signingKey) == 0 {
		return dErrors.New(dErrors.CodeUnauthorized, "session login is not configured")
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer("mercato"))
	if err != nil || !parsed.Valid {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	return nil
}
