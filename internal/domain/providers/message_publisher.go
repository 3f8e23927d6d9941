package providers

import (
	"context"
)

// MessagePublisher defines the interface for the outbound message channel.
// The dispatcher is the only caller; delivery failures are returned so the
// dispatcher can record them against the outbox entry.
type MessagePublisher interface {
	// PublishJSON marshals v and publishes it under the given routing key
	PublishJSON(ctx context.Context, routingKey string, v interface{}) error

	// Close releases the underlying channel/connection
	Close() error
}
