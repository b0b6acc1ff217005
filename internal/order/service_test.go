package order

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

	"mercato/internal/reference"
	"mercato/internal/upstream"
	dErrors "mercato/pkg/domain-errors"
)

// fakeBackend serves orders and reference collections and exposes the
// order-type toggle only under one configurable method, answering 404 for
// the other variants the way the real backend does.
type fakeBackend struct {
	mu            sync.Mutex
	toggleMethod  string
	toggleCalls   []string
	togglePayload map[string]string
	rejectToggle  bool
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orders": [
			{"id": "o1", "category_id": "c1", "subcategory_id": "sc1", "seller_id": "s1", "orderStatus": "Pending", "orderType": "inquiry"},
			{"id": "o2", "category_id": "missing", "orderStatus": "Delivered", "orderType": "Order"}
		]}`))
	})
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "c1", "name": "Kitchen"}]`))
	})
	mux.HandleFunc("GET /subcategories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "sc1", "name": "Cookware"}]`))
	})
	mux.HandleFunc("GET /sellers", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "s1", "shop_name": "Asha Traders"}]`))
	})

	toggle := func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.toggleCalls = append(f.toggleCalls, r.Method+" "+r.URL.Path)
		if r.Method != f.toggleMethod {
			http.NotFound(w, r)
			return
		}
		if f.rejectToggle {
			http.Error(w, `{"message":"toggle rejected"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&f.togglePayload)
		w.WriteHeader(http.StatusOK)
	}
	mux.HandleFunc("/ordersOrderType", toggle)
	mux.HandleFunc("/ordersOrderType/", toggle)
	return mux
}

func newTestService(t *testing.T) (*Service, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{toggleMethod: http.MethodPatch}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := upstream.New(srv.URL, logger)
	return NewService(client, reference.NewService(client, logger), logger, nil), backend
}

func findOrder(t *testing.T, orders []Order, id string) Order {
	t.Helper()
	for _, o := range orders {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("order %s not in list", id)
	return Order{}
}

func TestListEnrichesAndFilters(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("reference names joined in", func(t *testing.T) {
		orders, err := svc.List(context.Background(), "", "")
		require.NoError(t, err)
		require.Len(t, orders, 2)

		o1 := findOrder(t, orders, "o1")
		assert.Equal(t, "Kitchen", o1.CategoryName)
		assert.Equal(t, "Cookware", o1.SubCategoryName)
		assert.Equal(t, "Asha Traders", o1.SellerName)

		o2 := findOrder(t, orders, "o2")
		assert.Equal(t, reference.NotAvailable, o2.CategoryName)
		assert.Equal(t, reference.NotAvailable, o2.SellerName)
	})

	t.Run("filters applied after enrichment", func(t *testing.T) {
		orders, err := svc.List(context.Background(), "delivered", "")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "o2", orders[0].ID)
	})
}

func TestToggleType(t *testing.T) {
	t.Run("first candidate accepted", func(t *testing.T) {
		svc, backend := newTestService(t)

		orderType, err := svc.ToggleType(context.Background(), "o1")
		require.NoError(t, err)
		assert.Equal(t, TypeOrder, orderType)
		assert.Equal(t, []string{"PATCH /ordersOrderType"}, backend.toggleCalls)
		assert.Equal(t, map[string]string{"orderId": "o1", "orderType": "Order"}, backend.togglePayload)

		cached := findOrder(t, svc.StoreSnapshot(), "o1")
		assert.Equal(t, TypeOrder, cached.Type)
	})

	t.Run("chain walks past 404 variants", func(t *testing.T) {
		svc, backend := newTestService(t)
		backend.toggleMethod = http.MethodPut

		orderType, err := svc.ToggleType(context.Background(), "o2")
		require.NoError(t, err)
		assert.Equal(t, TypeInquiry, orderType)
		require.Len(t, backend.toggleCalls, 5)
		assert.Equal(t, "PUT /ordersOrderType", backend.toggleCalls[4])
	})

	t.Run("failure reverts the cached type", func(t *testing.T) {
		svc, backend := newTestService(t)
		_, err := svc.List(context.Background(), "", "")
		require.NoError(t, err)
		backend.rejectToggle = true

		orderType, err := svc.ToggleType(context.Background(), "o1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable),
			"the server failure surfaces, not a later variant's 404")
		assert.Equal(t, []string{"PATCH /ordersOrderType"}, backend.toggleCalls,
			"an answered failure ends the candidate chain")
		assert.Equal(t, TypeInquiry, orderType, "toggle settles on the previous value")

		cached := findOrder(t, svc.StoreSnapshot(), "o1")
		assert.Equal(t, TypeInquiry, cached.Type)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ToggleType(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
