package product

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercato/internal/upstream"
	dErrors "mercato/pkg/domain-errors"
)

// fakeBackend serves the product collection and records PATCH bodies. The
// rejectPatch switch makes every patch fail with a 500 so revert paths can
// be exercised.
type fakeBackend struct {
	mu          sync.Mutex
	products    []map[string]any
	patches     []map[string]string
	rejectPatch bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: []map[string]any{
			{"id": "p1", "name": "Steel Bucket", "highlight": "No", "status": "Active"},
			{"id": "p2", "name": "Clay Pot", "highlight": "Yes", "status": "Inactive"},
		},
	}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"products": f.products})
	})
	mux.HandleFunc("PATCH /product/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.rejectPatch {
			http.Error(w, `{"message":"patch rejected"}`, http.StatusInternalServerError)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.patches = append(f.patches, body)
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestService(t *testing.T) (*Service, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(upstream.New(srv.URL, logger), logger, nil), backend
}

func findProduct(t *testing.T, products []Product, id string) Product {
	t.Helper()
	for _, p := range products {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("product %s not in snapshot", id)
	return Product{}
}

func TestListNormalizesToggleFields(t *testing.T) {
	svc, backend := newTestService(t)
	backend.products = append(backend.products, map[string]any{"id": "p3", "name": "Rope"})

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	p3 := findProduct(t, products, "p3")
	assert.Equal(t, HighlightNo, p3.Highlight, "blank highlight canonicalizes to No")
	assert.Equal(t, StatusActive, p3.Status, "blank status canonicalizes to Active")
}

func TestToggleHighlight(t *testing.T) {
	t.Run("success keeps the applied value", func(t *testing.T) {
		svc, backend := newTestService(t)

		value, err := svc.Toggle(context.Background(), "p1", FieldHighlight)
		require.NoError(t, err)
		assert.Equal(t, HighlightYes, value)

		cached := findProduct(t, svc.StoreSnapshot(), "p1")
		assert.Equal(t, HighlightYes, cached.Highlight)

		require.Len(t, backend.patches, 1)
		assert.Equal(t, map[string]string{"highlight": "Yes"}, backend.patches[0])
	})

	t.Run("failed patch reverts the cached value", func(t *testing.T) {
		svc, backend := newTestService(t)
		_, err := svc.List(context.Background())
		require.NoError(t, err)
		backend.rejectPatch = true

		value, err := svc.Toggle(context.Background(), "p1", FieldHighlight)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable))
		assert.Equal(t, HighlightNo, value, "toggle settles on the previous value")

		cached := findProduct(t, svc.StoreSnapshot(), "p1")
		assert.Equal(t, HighlightNo, cached.Highlight)
	})
}

func TestToggleStatus(t *testing.T) {
	svc, backend := newTestService(t)

	value, err := svc.Toggle(context.Background(), "p2", FieldStatus)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, value)

	require.Len(t, backend.patches, 1)
	assert.Equal(t, map[string]string{"status": "Active"}, backend.patches[0])
}

func TestToggleUnknownField(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Toggle(context.Background(), "p1", "price")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestToggleUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Toggle(context.Background(), "missing", FieldHighlight)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestNextValues(t *testing.T) {
	assert.Equal(t, HighlightYes, NextHighlight("No"))
	assert.Equal(t, HighlightNo, NextHighlight("Yes"))
	assert.Equal(t, HighlightYes, NextHighlight(""))

	assert.Equal(t, StatusInactive, NextStatus("Active"))
	assert.Equal(t, StatusActive, NextStatus("Inactive"))
	assert.Equal(t, StatusInactive, NextStatus(""))
}
