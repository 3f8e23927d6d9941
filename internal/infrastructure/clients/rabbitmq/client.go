package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/medisched/backend/pkg/config"
	"github.com/medisched/backend/pkg/retry"
)

// Client holds a RabbitMQ connection and channel with the exchange and
// queue topology declared.
type Client struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewClient dials RabbitMQ with exponential backoff, declares the topic
// exchange and binds the durable queues. Routing keys follow the queue
// names ("booking.queue" binds "booking.key").
func NewClient(cfg *config.RabbitMQConfig) (*Client, error) {
	var conn *amqp.Connection

	err := retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		"RabbitMQ",
		func() error {
			var dialErr error
			conn, dialErr = amqp.Dial(cfg.URL)
			return dialErr
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Printf("RabbitMQ connection attempt %d failed: %v. Retrying in %v...", attempt, err, nextDelay)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ after retries: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	for queue, key := range map[string]string{
		cfg.BookingQueue:      RoutingKeyFor(cfg.BookingQueue),
		cfg.CancellationQueue: RoutingKeyFor(cfg.CancellationQueue),
		cfg.RegistrationQueue: RoutingKeyFor(cfg.RegistrationQueue),
	} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, key, cfg.Exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("failed to bind queue %s: %w", queue, err)
		}
	}

	log.Println("Successfully connected to RabbitMQ")
	return &Client{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

// RoutingKeyFor derives the routing key bound to a queue name
// ("booking.queue" -> "booking.key").
func RoutingKeyFor(queue string) string {
	const suffix = ".queue"
	if len(queue) > len(suffix) && queue[len(queue)-len(suffix):] == suffix {
		return queue[:len(queue)-len(suffix)] + ".key"
	}
	return queue + ".key"
}

// Channel returns the underlying AMQP channel
func (c *Client) Channel() *amqp.Channel {
	return c.ch
}

// Exchange returns the declared exchange name
func (c *Client) Exchange() string {
	return c.exchange
}

// Close closes the channel and connection
func (c *Client) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
