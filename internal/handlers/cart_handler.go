package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
)

// CartHandler exposes the shopper session.
type CartHandler struct {
	session *session.Session
	logger  *slog.Logger
}

func NewCartHandler(s *session.Session, logger *slog.Logger) *CartHandler {
	return &CartHandler{session: s, logger: logger}
}

// cartResponse is the priced cart. Adjusted is set when a requested quantity
// was clamped to stock.
type cartResponse struct {
	session.View
	Adjusted bool `json:"adjusted,omitempty"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type couponRequest struct {
	Code string `json:"code"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, cartResponse{View: h.session.View(r.Context())}, h.logger)
}

// AddItem handles POST /api/cart/items, adding one unit.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if req.ProductID == "" {
		WriteError(w, http.StatusBadRequest, "productId is required", h.logger)
		return
	}

	view, err := h.session.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, cartResponse{View: view}, h.logger)
}

// UpdateItem handles PUT /api/cart/items/{productId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if req.Quantity == nil {
		WriteError(w, http.StatusBadRequest, "quantity is required", h.logger)
		return
	}

	view, err := h.session.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), *req.Quantity)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, cartResponse{View: view}, h.logger)
	case errors.Is(err, cart.ErrStockExceeded):
		WriteJSON(w, http.StatusOK, cartResponse{View: view, Adjusted: true}, h.logger)
	default:
		writeServiceError(w, r, err, h.logger)
	}
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.session.RemoveFromCart(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, cartResponse{View: view}, h.logger)
}

// SelectCoupon handles PUT /api/cart/coupon
func (h *CartHandler) SelectCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	view, err := h.session.SelectCoupon(r.Context(), req.Code)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, cartResponse{View: view}, h.logger)
}

// ClearCoupon handles DELETE /api/cart/coupon
func (h *CartHandler) ClearCoupon(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, cartResponse{View: h.session.ClearCoupon(r.Context())}, h.logger)
}
