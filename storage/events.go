package storage

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is one analytics message. Keyed by restaurant so per-restaurant
// ordering is preserved within a partition.
type Event struct {
	Type         string    `json:"type"` // "order_placed" or "review_submitted"
	RestaurantID string    `json:"restaurant_id"`
	UserID       string    `json:"user_id"`
	OrderID      string    `json:"order_id,omitempty"`
	Rating       float64   `json:"rating,omitempty"`
	Amount       float64   `json:"amount,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// EventPublisher writes analytics events to Kafka. A nil publisher (no broker
// configured) silently skips publishing; events are a side channel and never
// block the request path.
type EventPublisher struct {
	Writer *kafka.Writer
}

// NewEventPublisher creates a publisher for the given broker and topic.
// Returns nil when broker is empty.
func NewEventPublisher(broker, topic string) *EventPublisher {
	if broker == "" {
		return nil
	}
	return &EventPublisher{Writer: &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}}
}

// Publish sends one event. Failures are logged and swallowed.
func (p *EventPublisher) Publish(ctx context.Context, ev Event) {
	if p == nil || p.Writer == nil {
		return
	}
	payload, _ := json.Marshal(ev)
	if err := p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.RestaurantID),
		Value: payload,
	}); err != nil {
		log.Printf("events: publish %s for %s: %v", ev.Type, ev.RestaurantID, err)
	}
}

// Close shuts down the underlying writer.
func (p *EventPublisher) Close() {
	if p == nil || p.Writer == nil {
		return
	}
	if err := p.Writer.Close(); err != nil {
		log.Printf("events: close writer: %v", err)
	}
}
