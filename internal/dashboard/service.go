// Package dashboard aggregates the landing-screen counts. Each count is one
// full-collection fetch; they run in parallel and fail independently so a
// single dead endpoint never blanks the whole screen.
package dashboard

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"mercato/internal/upstream"
)

// Stats holds the per-collection record counts. A collection that could
// not be counted appears in Unavailable instead of Counts.
type Stats struct {
	Counts      map[string]int `json:"counts"`
	Unavailable []string       `json:"unavailable,omitempty"`
}

type collection struct {
	name   string
	path   string
	plural string
}

// collections are the counted resources. Sellers keep the package-bundled
// fallback some backend versions use.
var collections = []collection{
	{name: "buyers", path: "/buyers", plural: "buyers"},
	{name: "sellers", path: "/sellers", plural: "sellers"},
	{name: "products", path: "/products", plural: "products"},
	{name: "orders", path: "/orders", plural: "orders"},
	{name: "categories", path: "/categories", plural: "categories"},
	{name: "subcategories", path: "/subcategories", plural: "subcategories"},
}

// Service computes the dashboard stats.
type Service struct {
	client *upstream.Client
	logger *slog.Logger
}

// NewService creates the dashboard service.
func NewService(client *upstream.Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Stats fetches every counted collection in parallel. Failures are logged
// and reported as unavailable; the remaining counts still come back.
func (s *Service) Stats(ctx context.Context) Stats {
	stats := Stats{Counts: make(map[string]int)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, col := range collections {
		g.Go(func() error {
			records, err := s.count(gctx, col)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.WarnContext(gctx, "dashboard count unavailable", "collection", col.name, "error", err)
				stats.Unavailable = append(stats.Unavailable, col.name)
				return nil
			}
			stats.Counts[col.name] = records
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(stats.Unavailable)
	return stats
}

func (s *Service) count(ctx context.Context, col collection) (int, error) {
	records, err := s.client.FetchCollectionPath(ctx, col.name, col.path, col.plural)
	if err == nil {
		return len(records), nil
	}
	if col.name == "sellers" {
		if records, ferr := s.client.FetchCollectionPath(ctx, col.name, "/sellerswithPackage", col.plural); ferr == nil {
			return len(records), nil
		}
	}
	return 0, err
}
