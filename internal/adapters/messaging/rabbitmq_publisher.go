package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/medisched/backend/internal/domain/providers"
	"github.com/medisched/backend/internal/infrastructure/clients/rabbitmq"
)

// RabbitMQPublisher implements the MessagePublisher interface over a topic
// exchange
type RabbitMQPublisher struct {
	client *rabbitmq.Client
}

// NewRabbitMQPublisher creates a new RabbitMQ publisher
func NewRabbitMQPublisher(client *rabbitmq.Client) providers.MessagePublisher {
	return &RabbitMQPublisher{client: client}
}

// PublishJSON marshals v and publishes it under the given routing key.
// Messages are persistent so a broker restart does not drop deliveries the
// outbox already considers sent.
func (p *RabbitMQPublisher) PublishJSON(ctx context.Context, routingKey string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.client.Channel().PublishWithContext(ctx,
		p.client.Exchange(),
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Close releases the underlying channel and connection
func (p *RabbitMQPublisher) Close() error {
	return p.client.Close()
}
