// Package reference builds the id-to-name lookup maps used to enrich order
// rows: category, subcategory, and seller names live in their own
// collections and are joined in by id. Maps are rebuilt per view load; a
// collection that fails to load yields an empty map so every lookup against
// it resolves to the sentinel instead of failing the view.
package reference

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"mercato/internal/upstream"
)

// NotAvailable is the display value for any reference the lookup maps
// cannot resolve.
const NotAvailable = "N/A"

// Maps holds the per-view-load id-to-name indexes.
type Maps struct {
	Categories    map[string]string
	SubCategories map[string]string
	Sellers       map[string]string
}

// CategoryName resolves a category id, falling back to the sentinel.
func (m Maps) CategoryName(id string) string { return lookup(m.Categories, id) }

// SubCategoryName resolves a subcategory id, falling back to the sentinel.
func (m Maps) SubCategoryName(id string) string { return lookup(m.SubCategories, id) }

// SellerName resolves a seller id, falling back to the sentinel.
func (m Maps) SellerName(id string) string { return lookup(m.Sellers, id) }

func lookup(index map[string]string, id string) string {
	if name, ok := index[id]; ok && name != "" {
		return name
	}
	return NotAvailable
}

// Service fetches the reference collections.
type Service struct {
	client *upstream.Client
	logger *slog.Logger
}

// NewService creates the reference lookup service.
func NewService(client *upstream.Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Load fetches all three reference collections in parallel and indexes them
// by id. Each collection fails independently; the cost of the whole load is
// one pass over each collection, so joins stay O(1) per row afterwards.
func (s *Service) Load(ctx context.Context) Maps {
	maps := Maps{
		Categories:    make(map[string]string),
		SubCategories: make(map[string]string),
		Sellers:       make(map[string]string),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.index(gctx, "category", "/categories", "categories", maps.Categories)
		return nil
	})
	g.Go(func() error {
		s.index(gctx, "subcategory", "/subcategories", "subcategories", maps.SubCategories)
		return nil
	})
	g.Go(func() error {
		s.indexSellers(gctx, maps.Sellers)
		return nil
	})
	_ = g.Wait()

	return maps
}

func (s *Service) index(ctx context.Context, label, path, plural string, out map[string]string) {
	records, err := s.client.FetchCollectionPath(ctx, label, path, plural)
	if err != nil {
		s.logger.WarnContext(ctx, "reference collection unavailable", "collection", label, "error", err)
		return
	}
	for _, raw := range records {
		id, name := parseNamed(raw)
		if id != "" {
			out[id] = name
		}
	}
}

// indexSellers probes the plain sellers endpoint first and falls back to
// the package-bundled variant some backend versions expose instead.
func (s *Service) indexSellers(ctx context.Context, out map[string]string) {
	records, err := s.client.FetchCollectionPath(ctx, "seller", "/sellers", "sellers")
	if err != nil {
		records, err = s.client.FetchCollectionPath(ctx, "seller", "/sellerswithPackage", "sellers")
	}
	if err != nil {
		s.logger.WarnContext(ctx, "reference collection unavailable", "collection", "seller", "error", err)
		return
	}
	for _, raw := range records {
		id, name := parseNamed(raw)
		if id != "" {
			out[id] = name
		}
	}
}

// parseNamed extracts the id and display name from one reference record,
// tolerating mongo-style ids and seller records that carry shop_name.
func parseNamed(raw json.RawMessage) (id, name string) {
	var rec struct {
		ID       string `json:"id"`
		AltID    string `json:"_id"`
		Name     string `json:"name"`
		ShopName string `json:"shop_name"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return "", ""
	}
	id = rec.ID
	if id == "" {
		id = rec.AltID
	}
	name = rec.Name
	if name == "" {
		name = rec.ShopName
	}
	return id, name
}
