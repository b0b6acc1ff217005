package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	dErrors "mercato/pkg/domain-errors"
	"mercato/pkg/platform/httputil"
)

// TokenVerifier checks a bearer session token issued by the auth service.
type TokenVerifier interface {
	VerifyToken(token string) error
}

// AdminAuth gates admin routes behind either the shared X-Admin-Token or a
// bearer session token from /auth/login. An empty adminToken disables the
// shared-token path entirely.
func AdminAuth(adminToken string, verifier TokenVerifier, logger *slog.Logger, onFailure func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken != "" {
				provided := r.Header.Get("X-Admin-Token")
				if provided != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}

			if bearer := bearerToken(r); bearer != "" && verifier != nil {
				if err := verifier.VerifyToken(bearer); err == nil {
					next.ServeHTTP(w, r)
					return
				}
			}

			if onFailure != nil {
				onFailure()
			}
			logger.WarnContext(r.Context(), "admin auth rejected",
				"path", r.URL.Path,
				"request_id", GetRequestID(r.Context()),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin credentials required"))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(h, prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
