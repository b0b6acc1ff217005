package order

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mercato/internal/platform/middleware"
	"mercato/pkg/platform/httputil"
)

// OrderService is the interface the handler needs.
type OrderService interface {
	List(ctx context.Context, status, orderType string) ([]Order, error)
	ToggleType(ctx context.Context, id string) (string, error)
}

// Handler exposes the order admin endpoints.
type Handler struct {
	service OrderService
	logger  *slog.Logger
}

// NewHandler creates the order HTTP handler.
func NewHandler(service OrderService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts order routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/orders", h.HandleList)
	r.Post("/admin/orders/{id}/toggle-type", h.HandleToggleType)
}

// CollectionResponse wraps an enriched order list.
type CollectionResponse struct {
	Orders []Order `json:"orders"`
}

// ToggleResponse reports the type an order settled on.
type ToggleResponse struct {
	ID        string `json:"id"`
	OrderType string `json:"order_type"`
}

// HandleList returns the order collection, enriched and optionally
// narrowed by the status and type query parameters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	query := r.URL.Query()
	orders, err := h.service.List(ctx, query.Get("status"), query.Get("type"))
	if err != nil {
		h.logger.ErrorContext(ctx, "list orders failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CollectionResponse{Orders: orders})
}

// HandleToggleType flips an order between inquiry and order.
func (h *Handler) HandleToggleType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	id := chi.URLParam(r, "id")

	orderType, err := h.service.ToggleType(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "order type toggle failed",
			"error", err, "request_id", requestID, "order_id", id)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ToggleResponse{ID: id, OrderType: orderType})
}
