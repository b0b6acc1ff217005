package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mercato/pkg/platform/httputil"
)

// StatsProvider is the interface the handler needs.
type StatsProvider interface {
	Stats(ctx context.Context) Stats
}

// Handler exposes the dashboard endpoint.
type Handler struct {
	service StatsProvider
	logger  *slog.Logger
}

// NewHandler creates the dashboard HTTP handler.
func NewHandler(service StatsProvider, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the dashboard route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/dashboard", h.HandleStats)
}

// HandleStats returns the per-collection counts. Partial results are a 200;
// unavailable collections are named in the body.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Stats(r.Context()))
}
