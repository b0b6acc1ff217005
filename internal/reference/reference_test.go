package reference

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"mercato/internal/upstream"
)

func newTestMaps(t *testing.T, handler http.Handler) Maps {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(upstream.New(srv.URL, logger), logger).Load(context.Background())
}

func TestLoad(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"categories": [{"id": "c1", "name": "Kitchen"}]}`))
	})
	mux.HandleFunc("GET /subcategories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id": "sc1", "name": "Cookware"}]`))
	})
	mux.HandleFunc("GET /sellers", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sellers": [{"id": "s1", "shop_name": "Asha Traders"}]}`))
	})

	maps := newTestMaps(t, mux)

	assert.Equal(t, "Kitchen", maps.CategoryName("c1"))
	assert.Equal(t, "Cookware", maps.SubCategoryName("sc1"))
	assert.Equal(t, "Asha Traders", maps.SellerName("s1"))
	assert.Equal(t, NotAvailable, maps.CategoryName("missing"))
}

func TestLoadSellerFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sellerswithPackage", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "s1", "name": "Asha Traders"}]`))
	})

	maps := newTestMaps(t, mux)

	assert.Equal(t, "Asha Traders", maps.SellerName("s1"))
}

func TestLoadPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "c1", "name": "Kitchen"}]`))
	})
	// Subcategories and sellers 404; their maps stay empty.

	maps := newTestMaps(t, mux)

	assert.Equal(t, "Kitchen", maps.CategoryName("c1"))
	assert.Equal(t, NotAvailable, maps.SubCategoryName("sc1"))
	assert.Equal(t, NotAvailable, maps.SellerName("s1"))
}
