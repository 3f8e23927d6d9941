package repositories

import (
	"context"
	"time"

	"github.com/medisched/backend/internal/domain/entities"
)

// OutboxRepository defines the interface for the transactional outbox.
// Enqueue must run under the same Transactor callback as the business
// mutation it describes, so the two commit or roll back together.
type OutboxRepository interface {
	// Enqueue inserts a PENDING outbox entry
	Enqueue(ctx context.Context, message *entities.OutboxMessage) error

	// ListDispatchable retrieves up to limit entries in the given status
	// with retry_count < maxRetries, oldest first
	ListDispatchable(ctx context.Context, status entities.OutboxStatus, maxRetries, limit int) ([]*entities.OutboxMessage, error)

	// MarkSent records a successful delivery
	MarkSent(ctx context.Context, id string, sentAt time.Time) error

	// MarkFailed records a failed delivery attempt, incrementing the
	// entry's retry count
	MarkFailed(ctx context.Context, id string, deliveryErr string) error
}
