package buyer

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"mercato/internal/draft"
	"mercato/internal/platform/metrics"
	"mercato/internal/platform/privacy"
	"mercato/internal/store"
	"mercato/internal/upstream"
	dErrors "mercato/pkg/domain-errors"
)

// Resource describes the buyer endpoints: plural collection reads, singular
// item writes.
var Resource = upstream.Resource{
	Name:           "buyer",
	Plural:         "buyers",
	CollectionPath: "/buyers",
	ItemPath:       "/buyer",
}

// RequiredFields are the statically required draft fields for both create
// and edit submissions.
var RequiredFields = []string{"name", "mobile", "email"}

// enrichmentConcurrency bounds the parallel product-name lookups.
const enrichmentConcurrency = 8

// Service owns the buyer collection: list, detail, multipart writes, and the
// buyer-orders enrichment.
type Service struct {
	client  *upstream.Client
	store   *store.Store[Buyer]
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService creates the buyer service.
func NewService(client *upstream.Client, logger *slog.Logger, m *metrics.Metrics) *Service {
	s := &Service{client: client, logger: logger, metrics: m}
	s.store = store.New(s.fetchAll)
	return s
}

func (s *Service) fetchAll(ctx context.Context) ([]Buyer, error) {
	records, err := s.client.FetchCollection(ctx, Resource)
	if err != nil {
		return nil, err
	}

	buyers := make([]Buyer, 0, len(records))
	for _, raw := range records {
		b, err := Decode(raw)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable buyer record", "error", err)
			continue
		}
		buyers = append(buyers, b)
	}
	return buyers, nil
}

// List fetches the full buyer collection.
func (s *Service) List(ctx context.Context) ([]Buyer, error) {
	return s.store.Refresh(ctx)
}

// Get fetches one buyer's detail record, which the backend answers in the
// nested {buyer, company, kyc} shape.
func (s *Service) Get(ctx context.Context, id string) (Buyer, error) {
	raw, err := s.client.FetchItem(ctx, Resource, id)
	if err != nil {
		return Buyer{}, err
	}
	return Decode(raw)
}

// Create validates the draft and submits it as a multipart write, then
// refetches the collection to reconcile. New buyers start Pending.
func (s *Service) Create(ctx context.Context, d *draft.Draft) error {
	if !d.Validate(RequiredFields...) {
		return d.Err()
	}
	if d.Field("approve_status") == "" {
		d.SetField("approve_status", StatusPending)
	}

	form, err := buildForm(d)
	if err != nil {
		return err
	}
	if err := s.client.Create(ctx, Resource, form); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "buyer created",
		"email", privacy.MaskEmail(d.Field("email")),
		"mobile", privacy.MaskMobile(d.Field("mobile")),
	)
	s.refetchAfterWrite(ctx)
	return nil
}

// Update validates the draft and patches the buyer. A draft without a new
// file for a document field leaves the stored file untouched.
func (s *Service) Update(ctx context.Context, id string, d *draft.Draft) error {
	if !d.Validate(RequiredFields...) {
		return d.Err()
	}

	form, err := buildForm(d)
	if err != nil {
		return err
	}
	if err := s.client.Update(ctx, Resource, id, form); err != nil {
		return err
	}
	s.refetchAfterWrite(ctx)
	return nil
}

// Delete removes a buyer and refetches. The handler gates this behind an
// explicit confirmation flag.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, Resource, id); err != nil {
		return err
	}
	s.refetchAfterWrite(ctx)
	return nil
}

// Orders returns the buyer's orders with product names joined in. A 404
// from the orders endpoint means the buyer simply has none. Product lookups
// run in parallel; a failed lookup yields the sentinel name and never fails
// the batch.
func (s *Service) Orders(ctx context.Context, buyerID string) ([]Order, error) {
	records, err := s.client.FetchCollectionPath(ctx, "buyer_orders", "/orderbuyer/"+buyerID, "orders")
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return []Order{}, nil
		}
		return nil, err
	}

	orders := make([]Order, 0, len(records))
	for _, raw := range records {
		o, err := decodeOrder(raw)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable order record", "buyer_id", buyerID, "error", err)
			continue
		}
		orders = append(orders, o)
	}

	s.enrichProductNames(ctx, orders)
	return orders, nil
}

// enrichProductNames fills in each order's product name with an individual
// lookup. Results land in isolated slots, so any completion order is fine.
func (s *Service) enrichProductNames(ctx context.Context, orders []Order) {
	g := errgroup.Group{}
	g.SetLimit(enrichmentConcurrency)

	for i := range orders {
		if orders[i].ProductName != "" {
			continue
		}
		if orders[i].ProductID == "" {
			orders[i].ProductName = UnknownProduct
			continue
		}

		g.Go(func() error {
			orders[i].ProductName = s.lookupProductName(ctx, orders[i].ProductID)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) lookupProductName(ctx context.Context, productID string) string {
	raw, err := s.client.FetchItem(ctx, upstream.Resource{Name: "product", ItemPath: "/product"}, productID)
	if err != nil {
		return UnknownProduct
	}
	var product struct {
		Name string `json:"name"`
		Data *struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if json.Unmarshal(raw, &product) != nil {
		return UnknownProduct
	}
	if product.Name != "" {
		return product.Name
	}
	if product.Data != nil && product.Data.Name != "" {
		return product.Data.Name
	}
	return UnknownProduct
}

// refetchAfterWrite reconciles the store with the backend after a
// successful write. The write already succeeded, so a failed refetch is
// logged and left in the store's error state rather than failing the
// mutation.
func (s *Service) refetchAfterWrite(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.Refetches.WithLabelValues(Resource.Name).Inc()
	}
	if _, err := s.store.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "post-write refetch failed", "resource", Resource.Name, "error", err)
	}
}

// StoreSnapshot exposes the cached collection, mainly for dashboards and
// tests.
func (s *Service) StoreSnapshot() []Buyer {
	return s.store.Snapshot()
}

func buildForm(d *draft.Draft) (*upstream.Form, error) {
	buyerPart := map[string]string{}
	for _, name := range []string{"name", "email", "mobile", "password", "approve_status"} {
		if v := d.Field(name); v != "" {
			buyerPart[name] = v
		}
	}
	companyPart := map[string]string{}
	for wire, field := range map[string]string{"name": "company_name", "gst_number": "gst_number", "address": "address"} {
		if v := d.Field(field); v != "" {
			companyPart[wire] = v
		}
	}

	// The backend expects one "data" part holding {buyer, company, kyc};
	// document paths in "kyc" are only ever set server-side from the file
	// parts, so the JSON carries an empty object.
	form := upstream.NewForm()
	payload := map[string]any{
		"buyer":   buyerPart,
		"company": companyPart,
		"kyc":     map[string]string{},
	}
	if err := form.SetJSON("data", payload); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode buyer payload")
	}

	for field, file := range d.Files() {
		form.AttachFile(field, file.Filename, file.Content)
	}
	return form, nil
}
