package buyer

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mercato/internal/draft"
	"mercato/internal/platform/middleware"
	dErrors "mercato/pkg/domain-errors"
	"mercato/pkg/platform/httputil"
)

// BuyerService is the interface the handler needs. It returns domain
// objects, not HTTP response DTOs.
type BuyerService interface {
	List(ctx context.Context) ([]Buyer, error)
	Get(ctx context.Context, id string) (Buyer, error)
	Create(ctx context.Context, d *draft.Draft) error
	Update(ctx context.Context, id string, d *draft.Draft) error
	Delete(ctx context.Context, id string) error
	Orders(ctx context.Context, buyerID string) ([]Order, error)
}

// Handler exposes the buyer admin endpoints.
type Handler struct {
	service BuyerService
	logger  *slog.Logger
}

// NewHandler creates the buyer HTTP handler.
func NewHandler(service BuyerService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts buyer routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/buyers", h.HandleList)
	r.Post("/admin/buyers", h.HandleCreate)
	r.Get("/admin/buyers/{id}", h.HandleGet)
	r.Patch("/admin/buyers/{id}", h.HandleUpdate)
	r.Delete("/admin/buyers/{id}", h.HandleDelete)
	r.Get("/admin/buyers/{id}/orders", h.HandleOrders)
}

// formFields are the draft fields accepted from create/edit submissions.
var formFields = []string{
	"name", "email", "mobile", "password", "approve_status",
	"company_name", "gst_number", "address",
}

// fileFields are the accepted upload parts: the profile image plus the four
// KYC documents.
var fileFields = []string{
	"image", "aadhar_front", "aadhar_back", "driving_license_front", "driving_license_back",
}

// CollectionResponse wraps a buyer list.
type CollectionResponse struct {
	Buyers []Buyer `json:"buyers"`
}

// OrdersResponse wraps a buyer's enriched orders.
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

// HandleList returns the full buyer collection.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	buyers, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list buyers failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CollectionResponse{Buyers: buyers})
}

// HandleGet returns one buyer's detail record.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	id := chi.URLParam(r, "id")

	b, err := h.service.Get(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "get buyer failed", "error", err, "request_id", requestID, "buyer_id", id)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, b)
}

// HandleCreate accepts a multipart buyer submission with optional image and
// KYC document uploads.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	d, err := draft.FromRequest(r, draft.ModeCreate, formFields, fileFields)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Create(ctx, d); err != nil {
		h.logger.ErrorContext(ctx, "create buyer failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleUpdate patches a buyer. Omitted file parts leave stored documents
// untouched; a blank password leaves the password unchanged.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	id := chi.URLParam(r, "id")

	d, err := draft.FromRequest(r, draft.ModeEdit, formFields, fileFields)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Update(ctx, id, d); err != nil {
		h.logger.ErrorContext(ctx, "update buyer failed", "error", err, "request_id", requestID, "buyer_id", id)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes a buyer. The irreversible delete requires
// confirm=true, the gateway's stand-in for the dashboard's confirm dialog.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("confirm") != "true" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "deletion requires confirm=true"))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "delete buyer failed", "error", err, "request_id", requestID, "buyer_id", id)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleOrders returns the buyer's orders with product names joined in.
func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	id := chi.URLParam(r, "id")

	orders, err := h.service.Orders(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "fetch buyer orders failed", "error", err, "request_id", requestID, "buyer_id", id)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, OrdersResponse{Orders: orders})
}
