package kds

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is prepended to the event type: pos.orders.order_created.
const DefaultSubjectPrefix = "pos.orders"

// NATSPublisher forwards order events to NATS for other terminals and
// back-office consumers.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("restaurant-pos"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

// Subject returns the subject an event is published on.
func (p *NATSPublisher) Subject(event string) string {
	return p.prefix + "." + event
}

func (p *NATSPublisher) Publish(_ context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.Subject(msg.Event), data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.Event, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
