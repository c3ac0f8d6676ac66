package kds

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
)

// Event types
const (
	EventOrderCreated       = "order_created"
	EventOrderUpdated       = "order_updated"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderCancelled     = "order_cancelled"
	EventOrderDeleted       = "order_deleted"
	EventPaymentUpdated     = "payment_updated"
	EventOrdersRefresh      = "orders_refresh"
)

type Message struct {
	Event      string      `json:"event"`
	Data       interface{} `json:"data"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Publisher delivers order events to whoever is listening.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// OrderEvent builds the message for an order change.
func OrderEvent(event string, order models.Order) Message {
	return Message{Event: event, Data: order, OccurredAt: time.Now()}
}

// MultiPublisher sends each message to all publishers and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, msg Message) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopPublisher drops every message.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Message) error { return nil }
