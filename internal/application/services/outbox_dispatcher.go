package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/providers"
	"github.com/medisched/backend/internal/domain/repositories"
	"github.com/medisched/backend/internal/infrastructure/observability"
	"github.com/medisched/backend/pkg/config"
)

// OutboxDispatcher drains the message outbox: a fast poll for fresh PENDING
// entries and a slower one that retries FAILED entries until their retry
// budget is spent. Entries past the budget stay FAILED for operator
// inspection; nothing is ever deleted.
type OutboxDispatcher struct {
	outboxRepo repositories.OutboxRepository
	publisher  providers.MessagePublisher
	cfg        config.OutboxConfig
	metrics    *observability.Metrics
	logger     zerolog.Logger
	now        func() time.Time
}

// NewOutboxDispatcher creates a new outbox dispatcher
func NewOutboxDispatcher(
	outboxRepo repositories.OutboxRepository,
	publisher providers.MessagePublisher,
	cfg config.OutboxConfig,
	metrics *observability.Metrics,
	logger zerolog.Logger,
	now func() time.Time,
) *OutboxDispatcher {
	if now == nil {
		now = time.Now
	}
	return &OutboxDispatcher{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
		now:        now,
	}
}

// Run polls until the context is cancelled. Poll errors are logged and the
// next tick tries again; a dead database or broker must not kill the loop.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	d.logger.Info().
		Dur("pending_interval", d.cfg.PendingInterval).
		Dur("failed_interval", d.cfg.FailedInterval).
		Int("max_retries", d.cfg.MaxRetries).
		Msg("outbox dispatcher started")

	pendingTicker := time.NewTicker(d.cfg.PendingInterval)
	failedTicker := time.NewTicker(d.cfg.FailedInterval)
	defer pendingTicker.Stop()
	defer failedTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("outbox dispatcher stopped")
			return
		case <-pendingTicker.C:
			if _, err := d.ProcessPending(ctx); err != nil {
				d.logger.Error().Err(err).Msg("pending outbox poll failed")
			}
		case <-failedTicker.C:
			if _, err := d.RetryFailed(ctx); err != nil {
				d.logger.Error().Err(err).Msg("failed outbox poll failed")
			}
		}
	}
}

// ProcessPending dispatches one batch of PENDING entries and returns how
// many were delivered.
func (d *OutboxDispatcher) ProcessPending(ctx context.Context) (int, error) {
	return d.processBatch(ctx, entities.OutboxStatusPending)
}

// RetryFailed re-dispatches one batch of FAILED entries that still have
// retry budget and returns how many were delivered.
func (d *OutboxDispatcher) RetryFailed(ctx context.Context) (int, error) {
	return d.processBatch(ctx, entities.OutboxStatusFailed)
}

func (d *OutboxDispatcher) processBatch(ctx context.Context, status entities.OutboxStatus) (int, error) {
	messages, err := d.outboxRepo.ListDispatchable(ctx, status, d.cfg.MaxRetries, d.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, message := range messages {
		if err := d.dispatch(ctx, message); err != nil {
			// Failure is recorded on the entry; the rest of the batch
			// still gets its attempt.
			d.logger.Warn().
				Err(err).
				Str("outbox_id", message.ID).
				Str("message_type", string(message.MessageType)).
				Int("retry_count", message.RetryCount).
				Msg("outbox dispatch failed")
			continue
		}
		delivered++
	}

	if len(messages) > 0 {
		d.logger.Info().
			Str("status", string(status)).
			Int("batch", len(messages)).
			Int("delivered", delivered).
			Msg("outbox batch processed")
	}
	return delivered, nil
}

// dispatch publishes one entry and records the outcome on it. The payload
// is decoded into its typed form first so a corrupt entry fails here, at
// the producer side, instead of at every consumer.
func (d *OutboxDispatcher) dispatch(ctx context.Context, message *entities.OutboxMessage) error {
	payload, err := decodePayload(message)
	if err != nil {
		d.markFailed(ctx, message, err)
		observability.RecordOutboxOutcome(ctx, d.metrics, string(message.MessageType), false)
		return err
	}

	if err := d.publisher.PublishJSON(ctx, message.RoutingKey, payload); err != nil {
		d.markFailed(ctx, message, err)
		observability.RecordOutboxOutcome(ctx, d.metrics, string(message.MessageType), false)
		return err
	}

	if err := d.outboxRepo.MarkSent(ctx, message.ID, d.now().UTC()); err != nil {
		return err
	}
	observability.RecordOutboxOutcome(ctx, d.metrics, string(message.MessageType), true)
	return nil
}

func (d *OutboxDispatcher) markFailed(ctx context.Context, message *entities.OutboxMessage, cause error) {
	if err := d.outboxRepo.MarkFailed(ctx, message.ID, cause.Error()); err != nil {
		d.logger.Error().
			Err(err).
			Str("outbox_id", message.ID).
			Msg("failed to record outbox delivery failure")
	}
}

func decodePayload(message *entities.OutboxMessage) (interface{}, error) {
	switch message.MessageType {
	case entities.MessageTypeBooking:
		var payload entities.BookingMessage
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	case entities.MessageTypeCancellation:
		var payload entities.CancellationMessage
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	case entities.MessageTypeRegistration:
		var payload entities.RegistrationMessage
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	default:
		// Unknown types pass through untouched rather than blocking the queue.
		return message.Payload, nil
	}
}
