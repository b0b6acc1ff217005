package crud

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mercato/internal/draft"
	"mercato/internal/platform/middleware"
	dErrors "mercato/pkg/domain-errors"
	"mercato/pkg/platform/httputil"
)

// Handler exposes the standard admin endpoints for one CRUD resource.
type Handler[T any] struct {
	service *Service[T]
	logger  *slog.Logger
}

// NewHandler creates the HTTP handler for a CRUD service.
func NewHandler[T any](service *Service[T], logger *slog.Logger) *Handler[T] {
	return &Handler[T]{service: service, logger: logger}
}

// Register mounts the resource routes under /admin/<plural>.
func (h *Handler[T]) Register(r chi.Router) {
	base := "/admin/" + h.service.cfg.Resource.Plural
	r.Get(base, h.HandleList)
	r.Post(base, h.HandleCreate)
	r.Get(base+"/{id}", h.HandleGet)
	r.Patch(base+"/{id}", h.HandleUpdate)
	r.Delete(base+"/{id}", h.HandleDelete)
}

// HandleList returns the full collection keyed by the resource's plural
// name, the envelope every admin screen expects.
func (h *Handler[T]) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	records, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list failed",
			"resource", h.service.cfg.Resource.Name, "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{h.service.cfg.Resource.Plural: records})
}

// HandleGet returns one record.
func (h *Handler[T]) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	id := chi.URLParam(r, "id")

	rec, err := h.service.Get(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "get failed",
			"resource", h.service.cfg.Resource.Name, "error", err, "request_id", requestID, "id", id)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rec)
}

// HandleCreate accepts a multipart submission.
func (h *Handler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	d, err := draft.FromRequest(r, draft.ModeCreate, h.service.cfg.Fields, h.service.cfg.FileFields)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Create(ctx, d); err != nil {
		h.logger.ErrorContext(ctx, "create failed",
			"resource", h.service.cfg.Resource.Name, "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleUpdate patches one record.
func (h *Handler[T]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	id := chi.URLParam(r, "id")

	d, err := draft.FromRequest(r, draft.ModeEdit, h.service.cfg.Fields, h.service.cfg.FileFields)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Update(ctx, id, d); err != nil {
		h.logger.ErrorContext(ctx, "update failed",
			"resource", h.service.cfg.Resource.Name, "error", err, "request_id", requestID, "id", id)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes one record behind the confirm=true gate.
func (h *Handler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("confirm") != "true" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "deletion requires confirm=true"))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "delete failed",
			"resource", h.service.cfg.Resource.Name, "error", err, "request_id", requestID, "id", id)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
