package order

import (
	"context"
	"log/slog"
	"sync"

	"mercato/internal/platform/metrics"
	"mercato/internal/reference"
	"mercato/internal/store"
	"mercato/internal/upstream"
	dErrors "mercato/pkg/domain-errors"
)

// Resource describes the order endpoints. Orders are read as a collection;
// the only write is the type toggle, which lives on its own endpoint.
var Resource = upstream.Resource{
	Name:           "order",
	Plural:         "orders",
	CollectionPath: "/orders",
	ItemPath:       "/order",
}

// References is the part of the reference lookup the order service needs.
type References interface {
	Load(ctx context.Context) reference.Maps
}

// Service owns the order collection: the filtered, enriched listing and
// the optimistic order-type toggle with its endpoint fallback chain.
type Service struct {
	client  *upstream.Client
	refs    References
	store   *store.Store[Order]
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService creates the order service.
func NewService(client *upstream.Client, refs References, logger *slog.Logger, m *metrics.Metrics) *Service {
	s := &Service{
		client:   client,
		refs:     refs,
		logger:   logger,
		metrics:  m,
		inFlight: make(map[string]struct{}),
	}
	s.store = store.New(s.fetchAll)
	return s
}

func (s *Service) fetchAll(ctx context.Context) ([]Order, error) {
	records, err := s.client.FetchCollection(ctx, Resource)
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(records))
	for _, raw := range records {
		o, err := Decode(raw)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable order record", "error", err)
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// List refreshes the order collection, joins reference names in, and
// applies the status and type filters. The lookup maps are rebuilt on every
// call so renamed categories or sellers show up without a restart.
func (s *Service) List(ctx context.Context, status, orderType string) ([]Order, error) {
	orders, err := s.store.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	maps := s.refs.Load(ctx)
	for i := range orders {
		s.enrich(&orders[i], maps)
	}
	return Filter(orders, status, orderType), nil
}

// enrich fills the reference name fields. A name already embedded in the
// order record wins over the lookup; an id the maps cannot resolve shows
// the sentinel rather than hiding the row.
func (s *Service) enrich(o *Order, maps reference.Maps) {
	if o.CategoryName == "" {
		o.CategoryName = maps.CategoryName(o.CategoryID)
	}
	if o.SubCategoryName == "" {
		o.SubCategoryName = maps.SubCategoryName(o.SubCategoryID)
	}
	if o.SellerName == "" {
		o.SellerName = maps.SellerName(o.SellerID)
	}
}

// ToggleType flips an order between inquiry and order. The cached record is
// patched immediately, then the candidate endpoints are probed in order; a
// failure past the probe phase reverts the cached value. Returns the type
// the order settled on.
func (s *Service) ToggleType(ctx context.Context, id string) (string, error) {
	if !s.acquire(id) {
		return "", dErrors.New(dErrors.CodeConflict, "a type toggle for this order is already in flight")
	}
	defer s.release(id)

	if _, err := s.store.Ensure(ctx); err != nil {
		return "", err
	}

	current, ok := s.currentType(id)
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "order not found: "+id)
	}

	toggle := store.BeginToggle(current, NextOrderType(current))
	s.writeType(id, toggle.Value())

	payload := map[string]string{"orderId": id, "orderType": toggle.Value()}
	if err := s.client.TryCandidates(ctx, "order_type", upstream.OrderTypeCandidates(), payload); err != nil {
		toggle.Revert()
		s.writeType(id, toggle.Value())
		if s.metrics != nil {
			s.metrics.OptimisticReverts.WithLabelValues(Resource.Name, "order_type").Inc()
		}
		s.logger.WarnContext(ctx, "order type toggle reverted", "order_id", id, "error", err)
		return toggle.Value(), err
	}

	toggle.Confirm()
	return toggle.Value(), nil
}

// StoreSnapshot exposes the cached collection without enrichment.
func (s *Service) StoreSnapshot() []Order {
	return s.store.Snapshot()
}

func (s *Service) currentType(id string) (string, bool) {
	for _, o := range s.store.Snapshot() {
		if o.ID == id {
			return o.Type, true
		}
	}
	return "", false
}

func (s *Service) writeType(id, value string) {
	s.store.Mutate(func(records []Order) {
		for i := range records {
			if records[i].ID == id {
				records[i].Type = value
				return
			}
		}
	})
}

func (s *Service) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *Service) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}
