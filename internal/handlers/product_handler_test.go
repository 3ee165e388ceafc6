package handlers

import (
	"net/http"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

func TestListProducts(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name      string
		path      string
		wantCount int
	}{
		{"all products", "/api/products", 3},
		{"search by name", "/api/products?q=%EC%83%81%ED%92%882", 1},
		{"no match", "/api/products?q=zzz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, tt.path, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}

			var products []models.Product
			decode(t, w, &products)
			if len(products) != tt.wantCount {
				t.Errorf("expected %d products, got %d", tt.wantCount, len(products))
			}
		})
	}
}

func TestGetProduct(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/api/products/p2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var product models.Product
	decode(t, w, &product)
	if product.ID != "p2" || !product.IsRecommended {
		t.Errorf("unexpected product %+v", product)
	}

	w = srv.do(t, http.MethodGet, "/api/products/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid product",
			body:           models.ProductInput{Name: "Lamp", Price: 5000, Stock: 10, Discounts: []models.DiscountTier{{Quantity: 5, Rate: 0.1}}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate name",
			body:           models.ProductInput{Name: "상품1", Price: 5000, Stock: 10},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "price above limit",
			body:           models.ProductInput{Name: "Gold", Price: models.MaxProductPrice + 1, Stock: 1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "tier rate out of range",
			body:           models.ProductInput{Name: "Bad tier", Price: 100, Stock: 1, Discounts: []models.DiscountTier{{Quantity: 2, Rate: 0}}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"name": `,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil)

			w := srv.do(t, http.MethodPost, "/api/products", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var product models.Product
			decode(t, w, &product)
			if product.ID == "" {
				t.Error("expected generated product id")
			}
			if w := srv.do(t, http.MethodGet, "/api/products/"+product.ID, nil); w.Code != http.StatusOK {
				t.Errorf("created product not retrievable: %d", w.Code)
			}
		})
	}
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodPut, "/api/products/p1", map[string]interface{}{"price": 15000})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var product models.Product
	decode(t, w, &product)
	if product.Price != 15000 || product.Name != "상품1" {
		t.Errorf("partial update lost fields: %+v", product)
	}

	w = srv.do(t, http.MethodPut, "/api/products/p1", map[string]interface{}{"name": "상품3"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409 for duplicate name, got %d", w.Code)
	}

	w = srv.do(t, http.MethodDelete, "/api/products/p1", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	w = srv.do(t, http.MethodDelete, "/api/products/p1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestUpdateStock(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"valid stock", map[string]int{"stock": 7}, http.StatusOK},
		{"zero stock", map[string]int{"stock": 0}, http.StatusOK},
		{"negative stock", map[string]int{"stock": -1}, http.StatusBadRequest},
		{"missing stock", map[string]int{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPut, "/api/products/p3/stock", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestDiscountTiers(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodPost, "/api/products/p2/discounts", models.DiscountTier{Quantity: 5, Rate: 0.05})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	var product models.Product
	decode(t, w, &product)
	if len(product.Discounts) != 2 || product.Discounts[0].Quantity != 5 {
		t.Errorf("expected sorted tiers with new tier first, got %+v", product.Discounts)
	}

	w = srv.do(t, http.MethodPost, "/api/products/p2/discounts", models.DiscountTier{Quantity: 5, Rate: 0.3})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for duplicate tier, got %d", w.Code)
	}

	w = srv.do(t, http.MethodDelete, "/api/products/p2/discounts/5", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	w = srv.do(t, http.MethodDelete, "/api/products/p2/discounts/5", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	w = srv.do(t, http.MethodDelete, "/api/products/p2/discounts/five", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
