package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/events"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pricing"
)

// IDGenerator produces order identifiers. Each call must return a new id.
type IDGenerator interface {
	NewOrderID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewOrderID() string { return f() }

// UUIDOrderIDs yields ORD-<uuid>.
var UUIDOrderIDs = IDGeneratorFunc(func() string {
	return "ORD-" + uuid.NewString()
})

// OrderService handles order business logic
type OrderService struct {
	ids       IDGenerator
	now       func() time.Time
	publisher events.Publisher
	logger    *slog.Logger
}

// OrderOption customizes an OrderService.
type OrderOption func(*OrderService)

func WithIDGenerator(ids IDGenerator) OrderOption {
	return func(s *OrderService) { s.ids = ids }
}

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

// NewOrderService creates a new order service
func NewOrderService(publisher events.Publisher, logger *slog.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		ids:       UUIDOrderIDs,
		now:       time.Now,
		publisher: publisher,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOrder freezes the priced lines into an order. It always succeeds and
// does no I/O; stock is not re-validated here.
func (s *OrderService) NewOrder(lines []pricing.PricedLine, totals models.Totals, couponCode string) models.Order {
	order := models.Order{
		ID:          s.ids.NewOrderID(),
		Lines:       make([]models.OrderLine, len(lines)),
		Totals:      totals,
		CouponCode:  couponCode,
		CompletedAt: s.now(),
	}
	for i, line := range lines {
		rate, _ := line.Rate.Float64()
		order.Lines[i] = models.OrderLine{
			ProductID:    line.Product.ID,
			Name:         line.Product.Name,
			UnitPrice:    line.Product.Price,
			Quantity:     line.Quantity,
			DiscountRate: rate,
			Total:        line.Total,
		}
	}

	s.logger.Info("order completed",
		"order_id", order.ID,
		"lines", len(order.Lines),
		"total", order.Totals.AfterDiscount,
	)
	return order
}

// PublishOrder emits the order.completed event. A failed publish is logged
// only; the order stands.
func (s *OrderService) PublishOrder(ctx context.Context, order models.Order) {
	if err := s.publisher.PublishOrderCompleted(ctx, events.NewOrderCompleted(order)); err != nil {
		s.logger.Error("failed to publish order event", "order_id", order.ID, "error", err)
	}
}
