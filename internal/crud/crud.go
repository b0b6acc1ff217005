// Package crud is the generic resource workflow every simple admin screen
// instantiates: a cached collection, multipart create/update, confirmed
// delete, and a full refetch after every successful write. Resources with
// extra behavior (buyer enrichment, product toggles) own their services;
// the plain ones plug a config into this one.
package crud

import (
	"context"
	"encoding/json"
	"log/slog"

	"mercato/internal/draft"
	"mercato/internal/platform/metrics"
	"mercato/internal/store"
	"mercato/internal/upstream"
	dErrors "mercato/pkg/domain-errors"
)

// Config describes one resource instance of the workflow.
type Config[T any] struct {
	Resource upstream.Resource

	// Required are the draft fields that must be present on create and
	// edit; Fields is the full set serialized into the JSON data part.
	Required []string
	Fields   []string

	// FileFields are the accepted multipart upload parts.
	FileFields []string

	Decode func(json.RawMessage) (T, error)
}

// Service runs the workflow for one resource.
type Service[T any] struct {
	cfg     Config[T]
	client  *upstream.Client
	store   *store.Store[T]
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService creates a CRUD service from a resource config.
func NewService[T any](cfg Config[T], client *upstream.Client, logger *slog.Logger, m *metrics.Metrics) *Service[T] {
	s := &Service[T]{cfg: cfg, client: client, logger: logger, metrics: m}
	s.store = store.New(s.fetchAll)
	return s
}

func (s *Service[T]) fetchAll(ctx context.Context) ([]T, error) {
	records, err := s.client.FetchCollection(ctx, s.cfg.Resource)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, raw := range records {
		rec, err := s.cfg.Decode(raw)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable record",
				"resource", s.cfg.Resource.Name, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// List refreshes and returns the full collection.
func (s *Service[T]) List(ctx context.Context) ([]T, error) {
	return s.store.Refresh(ctx)
}

// Get fetches one record by id.
func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	raw, err := s.client.FetchItem(ctx, s.cfg.Resource, id)
	if err != nil {
		return zero, err
	}
	return s.cfg.Decode(raw)
}

// Create validates the draft, dispatches the multipart POST, and refetches
// the collection so the new record appears with its server-assigned id.
func (s *Service[T]) Create(ctx context.Context, d *draft.Draft) error {
	if !d.Validate(s.cfg.Required...) {
		return d.Err()
	}

	form, err := s.buildForm(d)
	if err != nil {
		return err
	}
	if err := s.client.Create(ctx, s.cfg.Resource, form); err != nil {
		return err
	}
	s.refetchAfterWrite(ctx)
	return nil
}

// Update validates the draft and dispatches the multipart PATCH. Omitted
// file parts leave stored uploads untouched.
func (s *Service[T]) Update(ctx context.Context, id string, d *draft.Draft) error {
	if !d.Validate(s.cfg.Required...) {
		return d.Err()
	}

	form, err := s.buildForm(d)
	if err != nil {
		return err
	}
	if err := s.client.Update(ctx, s.cfg.Resource, id, form); err != nil {
		return err
	}
	s.refetchAfterWrite(ctx)
	return nil
}

// Delete removes one record and refetches.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, s.cfg.Resource, id); err != nil {
		return err
	}
	s.refetchAfterWrite(ctx)
	return nil
}

// StoreSnapshot exposes the cached collection.
func (s *Service[T]) StoreSnapshot() []T {
	return s.store.Snapshot()
}

func (s *Service[T]) buildForm(d *draft.Draft) (*upstream.Form, error) {
	fields := map[string]string{}
	for _, name := range s.cfg.Fields {
		if v := d.Field(name); v != "" {
			fields[name] = v
		}
	}

	form := upstream.NewForm()
	if err := form.SetJSON("data", fields); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode "+s.cfg.Resource.Name+" payload")
	}
	for field, file := range d.Files() {
		form.AttachFile(field, file.Filename, file.Content)
	}
	return form, nil
}

func (s *Service[T]) refetchAfterWrite(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.Refetches.WithLabelValues(s.cfg.Resource.Name).Inc()
	}
	if _, err := s.store.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "post-write refetch failed",
			"resource", s.cfg.Resource.Name, "error", err)
	}
}
