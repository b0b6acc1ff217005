package product

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mercato/internal/platform/middleware"
	"mercato/pkg/platform/httputil"
)

// ProductService is the interface the handler needs.
type ProductService interface {
	List(ctx context.Context) ([]Product, error)
	Toggle(ctx context.Context, id, field string) (string, error)
}

// Handler exposes the product admin endpoints.
type Handler struct {
	service ProductService
	logger  *slog.Logger
}

// NewHandler creates the product HTTP handler.
func NewHandler(service ProductService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts product routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/products", h.HandleList)
	r.Patch("/admin/products/{id}/highlight", h.toggleHandler(FieldHighlight))
	r.Patch("/admin/products/{id}/status", h.toggleHandler(FieldStatus))
}

// CollectionResponse wraps a product list.
type CollectionResponse struct {
	Products []Product `json:"products"`
}

// ToggleResponse reports the value a toggled field settled on.
type ToggleResponse struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// HandleList returns the full product collection.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	products, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list products failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CollectionResponse{Products: products})
}

func (h *Handler) toggleHandler(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := middleware.GetRequestID(ctx)
		id := chi.URLParam(r, "id")

		value, err := h.service.Toggle(ctx, id, field)
		if err != nil {
			h.logger.ErrorContext(ctx, "product toggle failed",
				"error", err, "request_id", requestID, "product_id", id, "field", field)
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, ToggleResponse{ID: id, Field: field, Value: value})
	}
}
