package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventPublisher_NilIsSafe(t *testing.T) {
	// No broker configured means no publisher; publishing must be a no-op,
	// not a panic, since events are a side channel.
	var p *EventPublisher
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), Event{
			Type:         "order_placed",
			RestaurantID: "r1",
			Timestamp:    time.Now(),
		})
		p.Close()
	})

	assert.Nil(t, NewEventPublisher("", "foodie-events"))
}

func TestNewEventPublisher(t *testing.T) {
	p := NewEventPublisher("localhost:9092", "foodie-events")
	assert.NotNil(t, p)
	assert.Equal(t, "foodie-events", p.Writer.Topic)
	p.Close()
}
