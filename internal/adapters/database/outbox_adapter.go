package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
	"github.com/medisched/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medisched/backend/pkg/errors"
)

var outboxColumns = []interface{}{
	"id", "message_type", "payload", "routing_key",
	"status", "retry_count", "created_at", "sent_at", "last_error",
}

// OutboxAdapter implements the OutboxRepository interface
type OutboxAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOutboxAdapter creates a new outbox adapter
func NewOutboxAdapter(client *postgres.Client) repositories.OutboxRepository {
	return &OutboxAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Enqueue inserts a PENDING outbox entry
func (a *OutboxAdapter) Enqueue(ctx context.Context, message *entities.OutboxMessage) error {
	query, args, err := a.db.Insert("message_outbox").
		Rows(goqu.Record{
			"id":           message.ID,
			"message_type": message.MessageType,
			"payload":      []byte(message.Payload),
			"routing_key":  message.RoutingKey,
			"status":       message.Status,
			"retry_count":  message.RetryCount,
			"created_at":   message.CreatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := executorFrom(ctx, a.client).ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to enqueue outbox message", err)
	}
	return nil
}

// ListDispatchable retrieves up to limit entries in the given status with
// retry_count < maxRetries, oldest first
func (a *OutboxAdapter) ListDispatchable(ctx context.Context, status entities.OutboxStatus, maxRetries, limit int) ([]*entities.OutboxMessage, error) {
	query, args, err := a.db.Select(outboxColumns...).
		From("message_outbox").
		Where(
			goqu.Ex{"status": status},
			goqu.C("retry_count").Lt(maxRetries),
		).
		Order(goqu.I("created_at").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := executorFrom(ctx, a.client).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list outbox messages", err)
	}
	defer rows.Close()

	var messages []*entities.OutboxMessage
	for rows.Next() {
		message, err := scanOutboxMessage(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan outbox message", err)
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// MarkSent records a successful delivery
func (a *OutboxAdapter) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query, args, err := a.db.Update("message_outbox").
		Set(goqu.Record{
			"status":  entities.OutboxStatusSent,
			"sent_at": sentAt,
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := executorFrom(ctx, a.client).ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to mark outbox message sent", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("outbox message with id %s not found", id))
	}
	return nil
}

// MarkFailed records a failed delivery attempt. The retry count increments
// atomically in SQL so concurrent dispatchers cannot lose an attempt.
func (a *OutboxAdapter) MarkFailed(ctx context.Context, id string, deliveryErr string) error {
	query, args, err := a.db.Update("message_outbox").
		Set(goqu.Record{
			"status":      entities.OutboxStatusFailed,
			"retry_count": goqu.L("retry_count + 1"),
			"last_error":  deliveryErr,
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := executorFrom(ctx, a.client).ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to mark outbox message failed", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("outbox message with id %s not found", id))
	}
	return nil
}

func scanOutboxMessage(row rowScanner) (*entities.OutboxMessage, error) {
	message := &entities.OutboxMessage{}
	var payload []byte
	var sentAt sql.NullTime
	var lastError sql.NullString

	err := row.Scan(
		&message.ID,
		&message.MessageType,
		&payload,
		&message.RoutingKey,
		&message.Status,
		&message.RetryCount,
		&message.CreatedAt,
		&sentAt,
		&lastError,
	)
	if err != nil {
		return nil, err
	}

	message.Payload = payload
	if sentAt.Valid {
		message.SentAt = &sentAt.Time
	}
	if lastError.Valid {
		message.LastError = &lastError.String
	}
	return message, nil
}
