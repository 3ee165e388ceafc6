package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// subtotaler reports the current cart subtotal.
type subtotaler interface {
	Subtotal(ctx context.Context) int64
}

// seedStats reports what the coupon seed loader read at startup.
type seedStats interface {
	Stats() map[string]interface{}
}

// CouponHandler handles HTTP requests for coupon management
type CouponHandler struct {
	service *service.CouponService
	cart    subtotaler
	seeds   seedStats
	logger  *slog.Logger
}

// NewCouponHandler creates a new CouponHandler. seeds may be nil.
func NewCouponHandler(service *service.CouponService, cart subtotaler, seeds seedStats, logger *slog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		cart:    cart,
		seeds:   seeds,
		logger:  logger,
	}
}

// ListCoupons handles GET /api/coupons
func (h *CouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.ListCoupons(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, coupons, h.logger)
}

// ApplicableCoupons handles GET /api/coupons/applicable, evaluated against
// the current cart subtotal.
func (h *CouponHandler) ApplicableCoupons(w http.ResponseWriter, r *http.Request) {
	subtotal := h.cart.Subtotal(r.Context())

	coupons, err := h.service.ApplicableCoupons(r.Context(), subtotal)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"subtotal": subtotal,
		"coupons":  coupons,
	}, h.logger)
}

// CreateCoupon handles POST /api/coupons
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var in models.CouponInput
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	c, err := h.service.CreateCoupon(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, c, h.logger)
}

// DeleteCoupon handles DELETE /api/coupons/{couponCode}
func (h *CouponHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveCoupon(r.Context(), chi.URLParam(r, "couponCode")); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /api/coupons/stats (for debugging/monitoring)
func (h *CouponHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.seeds == nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{"total_sources": 0}, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, h.seeds.Stats(), h.logger)
}
