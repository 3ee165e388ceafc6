package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
)

type cartBody struct {
	Lines []struct {
		ProductID      string  `json:"productId"`
		Quantity       int     `json:"quantity"`
		DiscountRate   float64 `json:"discountRate"`
		Total          int64   `json:"total"`
		RemainingStock int     `json:"remainingStock"`
	} `json:"lines"`
	Totals struct {
		BeforeDiscount int64 `json:"totalBeforeDiscount"`
		AfterDiscount  int64 `json:"totalAfterDiscount"`
	} `json:"totals"`
	SelectedCoupon *struct {
		Code string `json:"code"`
	} `json:"selectedCoupon"`
	Adjusted bool `json:"adjusted"`
}

func TestCartFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	var cart cartBody
	w := srv.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &cart)
	assert.Empty(t, cart.Lines)

	for i := 0; i < 2; i++ {
		w = srv.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": "p1"})
		require.Equal(t, http.StatusOK, w.Code)
	}
	decode(t, w, &cart)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 18, cart.Lines[0].RemainingStock)

	w = srv.do(t, http.MethodPut, "/api/cart/coupon", map[string]string{"code": "percent10"})
	require.Equal(t, http.StatusOK, w.Code)
	cart = cartBody{}
	decode(t, w, &cart)
	require.NotNil(t, cart.SelectedCoupon)
	assert.Equal(t, "PERCENT10", cart.SelectedCoupon.Code)
	assert.Equal(t, int64(18000), cart.Totals.AfterDiscount)

	w = srv.do(t, http.MethodPut, "/api/cart/items/p1", map[string]int{"quantity": 10})
	require.Equal(t, http.StatusOK, w.Code)
	cart = cartBody{}
	decode(t, w, &cart)
	assert.Equal(t, 0.15, cart.Lines[0].DiscountRate)
	assert.Equal(t, int64(85000), cart.Lines[0].Total)
	assert.Equal(t, int64(76500), cart.Totals.AfterDiscount)
	assert.False(t, cart.Adjusted)

	w = srv.do(t, http.MethodDelete, "/api/cart/coupon", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart = cartBody{}
	decode(t, w, &cart)
	assert.Nil(t, cart.SelectedCoupon)
	assert.Equal(t, int64(85000), cart.Totals.AfterDiscount)

	w = srv.do(t, http.MethodDelete, "/api/cart/items/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart = cartBody{}
	decode(t, w, &cart)
	assert.Empty(t, cart.Lines)
}

func TestCart_UpdateQuantityClamps(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": "p2"})

	w := srv.do(t, http.MethodPut, "/api/cart/items/p2", map[string]int{"quantity": 500})
	require.Equal(t, http.StatusOK, w.Code)

	var cart cartBody
	decode(t, w, &cart)
	assert.True(t, cart.Adjusted)
	assert.Equal(t, 20, cart.Lines[0].Quantity)
}

func TestCart_Rejections(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{"unknown product", http.MethodPost, "/api/cart/items", map[string]string{"productId": "nope"}, http.StatusNotFound},
		{"missing product id", http.MethodPost, "/api/cart/items", map[string]string{}, http.StatusBadRequest},
		{"quantity for line not in cart", http.MethodPut, "/api/cart/items/p1", map[string]int{"quantity": 2}, http.StatusNotFound},
		{"missing quantity", http.MethodPut, "/api/cart/items/p1", map[string]int{}, http.StatusBadRequest},
		{"percentage coupon on empty cart", http.MethodPut, "/api/cart/coupon", map[string]string{"code": "PERCENT10"}, http.StatusUnprocessableEntity},
		{"unknown coupon", http.MethodPut, "/api/cart/coupon", map[string]string{"code": "GHOST123"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil)

			w := srv.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, errorMessage(t, w))
		})
	}
}

func TestCart_OutOfStock(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(t, http.MethodPut, "/api/products/p3/stock", map[string]int{"stock": 0})

	w := srv.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": "p3"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var cart cartBody
	decode(t, srv.do(t, http.MethodGet, "/api/cart", nil), &cart)
	assert.Empty(t, cart.Lines)

	active := srv.center.Active()
	require.NotEmpty(t, active)
	assert.Equal(t, notify.SeverityError, active[len(active)-1].Severity)
}
