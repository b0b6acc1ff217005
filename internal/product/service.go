package product

import (
	"context"
	"log/slog"
	"sync"

	"mercato/internal/platform/metrics"
	"mercato/internal/store"
	"mercato/internal/upstream"
	dErrors "mercato/pkg/domain-errors"
)

// Resource describes the product endpoints.
var Resource = upstream.Resource{
	Name:           "product",
	Plural:         "products",
	CollectionPath: "/products",
	ItemPath:       "/product",
}

// FieldHighlight and FieldStatus are the two scalar fields the dashboard
// toggles in place.
const (
	FieldHighlight = "highlight"
	FieldStatus    = "status"
)

// Service owns the product collection and its two optimistic scalar
// toggles. Toggles patch the cached record immediately and roll back if the
// backend rejects the change; they are the only writes that skip the
// refetch-after-write policy, since a confirmed single-field patch leaves
// nothing to reconcile.
type Service struct {
	client  *upstream.Client
	store   *store.Store[Product]
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService creates the product service.
func NewService(client *upstream.Client, logger *slog.Logger, m *metrics.Metrics) *Service {
	s := &Service{
		client:   client,
		logger:   logger,
		metrics:  m,
		inFlight: make(map[string]struct{}),
	}
	s.store = store.New(s.fetchAll)
	return s
}

func (s *Service) fetchAll(ctx context.Context) ([]Product, error) {
	records, err := s.client.FetchCollection(ctx, Resource)
	if err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(records))
	for _, raw := range records {
		p, err := Decode(raw)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable product record", "error", err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// List refreshes and returns the full product collection.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.store.Refresh(ctx)
}

// Toggle flips a product's highlight or status field. The cached record is
// updated before the PATCH is sent; a rejected or failed patch restores the
// previous value and returns the error. Returns the value the field holds
// after the operation settles.
func (s *Service) Toggle(ctx context.Context, id, field string) (string, error) {
	var next func(string) string
	switch field {
	case FieldHighlight:
		next = NextHighlight
	case FieldStatus:
		next = NextStatus
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown toggle field: "+field)
	}

	if !s.acquire(id, field) {
		return "", dErrors.New(dErrors.CodeConflict, "a toggle for this product is already in flight")
	}
	defer s.release(id, field)

	if _, err := s.store.Ensure(ctx); err != nil {
		return "", err
	}

	current, ok := s.currentValue(id, field)
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "product not found: "+id)
	}

	toggle := store.BeginToggle(current, next(current))
	s.writeValue(id, field, toggle.Value())

	if err := s.client.PatchJSON(ctx, Resource, id, map[string]string{field: toggle.Value()}); err != nil {
		toggle.Revert()
		s.writeValue(id, field, toggle.Value())
		if s.metrics != nil {
			s.metrics.OptimisticReverts.WithLabelValues(Resource.Name, field).Inc()
		}
		s.logger.WarnContext(ctx, "optimistic toggle reverted",
			"product_id", id, "field", field, "error", err)
		return toggle.Value(), err
	}

	toggle.Confirm()
	return toggle.Value(), nil
}

// StoreSnapshot exposes the cached collection.
func (s *Service) StoreSnapshot() []Product {
	return s.store.Snapshot()
}

func (s *Service) currentValue(id, field string) (string, bool) {
	for _, p := range s.store.Snapshot() {
		if p.ID == id {
			if field == FieldHighlight {
				return p.Highlight, true
			}
			return p.Status, true
		}
	}
	return "", false
}

func (s *Service) writeValue(id, field, value string) {
	s.store.Mutate(func(records []Product) {
		for i := range records {
			if records[i].ID != id {
				continue
			}
			if field == FieldHighlight {
				records[i].Highlight = value
			} else {
				records[i].Status = value
			}
			return
		}
	})
}

// acquire claims the per-record-per-field toggle slot. One toggle of a kind
// is in flight per product at a time.
func (s *Service) acquire(id, field string) bool {
	key := id + "/" + field
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *Service) release(id, field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id+"/"+field)
}
