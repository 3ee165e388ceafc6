package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/products?q=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// GetProduct handles GET /api/products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, product, h.logger)
}

// UpdateProduct handles PUT /api/products/{productId} with a partial body.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch models.ProductPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "productId"), patch)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// DeleteProduct handles DELETE /api/products/{productId}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveProduct(r.Context(), chi.URLParam(r, "productId")); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type stockRequest struct {
	Stock *int `json:"stock"`
}

// UpdateStock handles PUT /api/products/{productId}/stock
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if req.Stock == nil {
		WriteError(w, http.StatusBadRequest, "stock is required", h.logger)
		return
	}

	product, err := h.service.UpdateStock(r.Context(), chi.URLParam(r, "productId"), *req.Stock)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// AddDiscountTier handles POST /api/products/{productId}/discounts
func (h *ProductHandler) AddDiscountTier(w http.ResponseWriter, r *http.Request) {
	var tier models.DiscountTier
	if err := decodeJSON(r, &tier); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	product, err := h.service.AddDiscountTier(r.Context(), chi.URLParam(r, "productId"), tier)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, product, h.logger)
}

// RemoveDiscountTier handles DELETE /api/products/{productId}/discounts/{quantity}
func (h *ProductHandler) RemoveDiscountTier(w http.ResponseWriter, r *http.Request) {
	quantity, err := strconv.Atoi(chi.URLParam(r, "quantity"))
	if err != nil {
		h.logger.Warn("invalid tier quantity", "quantity", chi.URLParam(r, "quantity"), "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid quantity supplied", h.logger)
		return
	}

	product, err := h.service.RemoveDiscountTier(r.Context(), chi.URLParam(r, "productId"), quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}
