// Package events publishes domain events about completed orders.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// TypeOrderCompleted is the event type of OrderCompleted.
const TypeOrderCompleted = "order.completed"

// OrderCompleted is emitted once per successful checkout.
type OrderCompleted struct {
	Type        string             `json:"type"`
	OrderID     string             `json:"orderId"`
	Lines       []models.OrderLine `json:"lines"`
	Totals      models.Totals      `json:"totals"`
	CouponCode  string             `json:"couponCode,omitempty"`
	CompletedAt time.Time          `json:"completedAt"`
}

// NewOrderCompleted builds the event for order.
func NewOrderCompleted(order models.Order) OrderCompleted {
	return OrderCompleted{
		Type:        TypeOrderCompleted,
		OrderID:     order.ID,
		Lines:       order.Lines,
		Totals:      order.Totals,
		CouponCode:  order.CouponCode,
		CompletedAt: order.CompletedAt,
	}
}

// Publisher delivers order events.
type Publisher interface {
	PublishOrderCompleted(ctx context.Context, event OrderCompleted) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON, keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) PublishOrderCompleted(ctx context.Context, event OrderCompleted) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
		Time: event.CompletedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for order %s: %w", event.Type, event.OrderID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop discards events. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrderCompleted(context.Context, OrderCompleted) error { return nil }
func (Noop) Close() error                                                { return nil }
