package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mercato/internal/platform/middleware"
	"mercato/pkg/platform/httputil"
	s "mercato/pkg/string"
	"mercato/pkg/validation"
)

// Handler exposes the login endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates the auth HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts auth routes. Login stays outside the admin-auth gate.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// Sanitize implements httputil.Sanitizable. The password is left alone;
// leading whitespace in a password is the user's problem, not ours to trim.
func (r *LoginRequest) Sanitize() {
	s.TrimStrings(&r.Username)
}

// Validate implements httputil.Validatable.
func (r *LoginRequest) Validate() error {
	return validation.Validate(r)
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleLogin verifies the admin credential and returns a session token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	token, expiresAt, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login rejected", "username", req.Username, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt})
}
