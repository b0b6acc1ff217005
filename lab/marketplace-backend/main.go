// A standalone stand-in for the marketplace backend, for local development
// of the gateway. It reproduces the real API's quirks on purpose: every
// collection uses a different envelope shape, writes are multipart with a
// JSON "data" part, a buyer with no orders answers 404, and the order-type
// toggle only exists as PUT /ordersOrderType/.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
)

type store struct {
	mu     sync.Mutex
	nextID int

	buyers        []map[string]any
	products      []map[string]any
	orders        []map[string]any
	sliders       []map[string]any
	subcategories []map[string]any
	categories    []map[string]any
	sellers       []map[string]any
}

func seed() *store {
	return &store{
		nextID: 100,
		buyers: []map[string]any{
			{"id": "b1", "name": "Asha Traders", "mobile": "9876543210", "email": "asha@shop.in", "approve_status": "Approved"},
			{"id": "b2", "buyer": map[string]any{"name": "Ravi Stores", "mobile": "9123456780", "email": "ravi@shop.in"}},
		},
		products: []map[string]any{
			{"id": "p1", "name": "Steel Bucket", "price": 249, "highlight": "No", "status": "Active", "category_id": "c1", "seller_id": "s1"},
			{"id": "p2", "name": "Clay Pot", "price": "99", "highlight": "Yes", "status": "Inactive", "category_id": "c1", "seller_id": "s1"},
		},
		orders: []map[string]any{
			{"id": "o1", "product": map[string]any{"id": "p1", "name": "Steel Bucket"}, "category_id": "c1", "subcategory_id": "sc1", "seller_id": "s1", "quantity": 3, "orderStatus": "Pending", "orderType": "inquiry"},
			{"id": "o2", "product": "p2", "category_id": "c1", "seller_id": "s1", "quantity": 1, "orderStatus": "Delivered", "orderType": "Order"},
		},
		sliders:       []map[string]any{{"id": "sl1", "title": "Monsoon Sale", "image": "/img/sale.png"}},
		subcategories: []map[string]any{{"id": "sc1", "name": "Cookware", "category_id": "c1"}},
		categories:    []map[string]any{{"id": "c1", "name": "Kitchen"}},
		sellers:       []map[string]any{{"id": "s1", "shop_name": "Asha Wholesale"}},
	}
}

func main() {
	addr := getenv("ADDR", ":3000")
	s := seed()

	mux := http.NewServeMux()

	// Deliberately mismatched envelopes per collection.
	mux.HandleFunc("GET /buyers", s.list(&s.buyers, "buyers"))
	mux.HandleFunc("GET /products", s.list(&s.products, "data"))
	mux.HandleFunc("GET /orders", s.list(&s.orders, ""))
	mux.HandleFunc("GET /sliders", s.list(&s.sliders, "sliders"))
	mux.HandleFunc("GET /subcategories", s.list(&s.subcategories, ""))
	mux.HandleFunc("GET /categories", s.list(&s.categories, "data"))
	mux.HandleFunc("GET /sellerswithPackage", s.list(&s.sellers, "sellers"))

	mux.HandleFunc("GET /buyer/{id}", s.item(&s.buyers))
	mux.HandleFunc("GET /product/{id}", s.item(&s.products))
	mux.HandleFunc("POST /buyer", s.create(&s.buyers))
	mux.HandleFunc("POST /slider", s.create(&s.sliders))
	mux.HandleFunc("POST /subcategory", s.create(&s.subcategories))
	mux.HandleFunc("PATCH /buyer/{id}", s.update(&s.buyers))
	mux.HandleFunc("PATCH /product/{id}", s.patchJSON(&s.products))
	mux.HandleFunc("PATCH /slider/{id}", s.update(&s.sliders))
	mux.HandleFunc("PATCH /subcategory/{id}", s.update(&s.subcategories))
	mux.HandleFunc("DELETE /buyer/{id}", s.remove(&s.buyers))
	mux.HandleFunc("DELETE /slider/{id}", s.remove(&s.sliders))
	mux.HandleFunc("DELETE /subcategory/{id}", s.remove(&s.subcategories))

	mux.HandleFunc("GET /orderbuyer/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var mine []map[string]any
		for _, o := range s.orders {
			if o["buyer_id"] == r.PathValue("id") {
				mine = append(mine, o)
			}
		}
		if len(mine) == 0 {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": mine})
	})

	// The toggle answers only under PUT with the trailing slash; every other
	// variant 404s so the gateway's fallback chain gets exercised. Plain path
	// registration keeps ServeMux from answering 405 for the wrong methods.
	mux.HandleFunc("/ordersOrderType/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.NotFound(w, r)
			return
		}
		var body struct {
			OrderID   string `json:"orderId"`
			OrderType string `json:"orderType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, o := range s.orders {
			if o["id"] == body.OrderID {
				o["orderType"] = body.OrderType
				writeJSON(w, http.StatusOK, o)
				return
			}
		}
		http.NotFound(w, r)
	})

	log.Printf("fake marketplace backend listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func (s *store) list(col *[]map[string]any, envelope string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if envelope == "" {
			writeJSON(w, http.StatusOK, *col)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{envelope: *col})
	}
}

func (s *store) item(col *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, rec := range *col {
			if rec["id"] == r.PathValue("id") {
				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
		http.NotFound(w, r)
	}
}

func (s *store) create(col *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := parseWrite(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.nextID++
		rec["id"] = fmt.Sprintf("g%d", s.nextID)
		delete(rec, "password")
		*col = append(*col, rec)
		writeJSON(w, http.StatusCreated, rec)
	}
}

func (s *store) update(col *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := parseWrite(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, rec := range *col {
			if rec["id"] == r.PathValue("id") {
				for k, v := range fields {
					rec[k] = v
				}
				delete(rec, "password")
				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
		http.NotFound(w, r)
	}
}

func (s *store) patchJSON(col *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, rec := range *col {
			if rec["id"] == r.PathValue("id") {
				for k, v := range fields {
					rec[k] = v
				}
				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
		http.NotFound(w, r)
	}
}

func (s *store) remove(col *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		kept := (*col)[:0]
		found := false
		for _, rec := range *col {
			if rec["id"] == r.PathValue("id") {
				found = true
				continue
			}
			kept = append(kept, rec)
		}
		*col = kept
		if !found {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// parseWrite flattens a multipart or urlencoded write into one record. The
// JSON "data" part may itself nest {buyer, company, kyc} objects; nested
// string fields are merged flat the way the real backend stores them.
func parseWrite(r *http.Request) (map[string]any, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}

	rec := map[string]any{}
	if data := r.FormValue("data"); data != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(data), &parsed); err != nil {
			return nil, err
		}
		for k, v := range parsed {
			nested, ok := v.(map[string]any)
			if !ok {
				rec[k] = v
				continue
			}
			// The buyer sub-object merges flat; company fields keep a
			// prefix so company.name cannot clobber buyer.name.
			for nk, nv := range nested {
				if k == "company" && nk == "name" {
					nk = "company_name"
				}
				rec[nk] = nv
			}
		}
	}
	if r.MultipartForm != nil {
		for field, headers := range r.MultipartForm.File {
			if len(headers) > 0 {
				rec[field] = "/uploads/" + headers[0].Filename
			}
		}
	}
	return rec, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
