package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	session *session.Session
	log     *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(s *session.Session, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		session: s,
		log:     log,
	}
}

// OrderResponse carries the completed order and the reset cart.
type OrderResponse struct {
	Order models.Order `json:"order"`
	Cart  session.View `json:"cart"`
}

// CreateOrder handles POST /api/orders, checking out the current cart.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	order, view := h.session.CompleteOrder(r.Context())

	WriteJSON(w, http.StatusOK, OrderResponse{Order: order, Cart: view}, h.log)
	h.log.Info("order created successfully", "order_id", order.ID, "items_count", len(order.Lines))
}
