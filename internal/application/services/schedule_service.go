package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
	apperrors "github.com/medisched/backend/pkg/errors"
)

// ScheduleService manages per-date availability overrides. Blocking a date
// and cancelling the reservations on it is one atomic unit.
type ScheduleService struct {
	transactor             repositories.Transactor
	providerRepo           repositories.ProviderRepository
	overrideRepo           repositories.OverrideRepository
	reservationRepo        repositories.ReservationRepository
	outboxRepo             repositories.OutboxRepository
	cancellationRoutingKey string
	now                    func() time.Time
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	transactor repositories.Transactor,
	providerRepo repositories.ProviderRepository,
	overrideRepo repositories.OverrideRepository,
	reservationRepo repositories.ReservationRepository,
	outboxRepo repositories.OutboxRepository,
	cancellationRoutingKey string,
	now func() time.Time,
) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		transactor:             transactor,
		providerRepo:           providerRepo,
		overrideRepo:           overrideRepo,
		reservationRepo:        reservationRepo,
		outboxRepo:             outboxRepo,
		cancellationRoutingKey: cancellationRoutingKey,
		now:                    now,
	}
}

// BlockDate marks the date unbookable and cascade-cancels every CONFIRMED
// reservation on it, enqueueing one CANCELLATION message per affected
// reservation. The override write, the cancellations and the outbox entries
// commit or roll back together. Returns the number of reservations
// cancelled.
func (s *ScheduleService) BlockDate(ctx context.Context, providerID string, date time.Time) (int, error) {
	date = dateOnly(date)
	if date.Before(dateOnly(s.now())) {
		return 0, apperrors.NewValidationError("cannot block a date in the past")
	}

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return 0, err
	}

	var cancelledCount int
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		override := &entities.AvailabilityOverride{
			ID:          uuid.New().String(),
			ProviderID:  providerID,
			Date:        date,
			IsAvailable: false,
			CreatedAt:   s.now().UTC(),
		}
		if err := s.overrideRepo.Upsert(ctx, override); err != nil {
			return err
		}

		cancelled, err := s.reservationRepo.CancelConfirmedOnDate(ctx, providerID, date)
		if err != nil {
			return err
		}
		cancelledCount = len(cancelled)

		for _, reservation := range cancelled {
			message, err := entities.NewOutboxMessage(entities.MessageTypeCancellation, entities.CancellationMessage{
				ReservationID: reservation.ID,
				ProviderID:    provider.ID,
				ProviderName:  provider.Name,
				RequesterID:   reservation.RequesterID,
				Date:          reservation.DateString(),
				TimeLabel:     reservation.TimeLabel,
				Reason:        "provider blocked this date",
			}, s.cancellationRoutingKey)
			if err != nil {
				return apperrors.NewInternalError("failed to serialize cancellation message", err)
			}
			if err := s.outboxRepo.Enqueue(ctx, message); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return cancelledCount, nil
}

// UnblockDate removes the override for the date. Unblocking a date that was
// never blocked is a no-op; cancelled reservations stay cancelled.
func (s *ScheduleService) UnblockDate(ctx context.Context, providerID string, date time.Time) error {
	if _, err := s.providerRepo.GetByID(ctx, providerID); err != nil {
		return err
	}
	return s.overrideRepo.Delete(ctx, providerID, dateOnly(date))
}

// UpcomingBlocks lists the provider's overrides dated today or later.
func (s *ScheduleService) UpcomingBlocks(ctx context.Context, providerID string) ([]*entities.AvailabilityOverride, error) {
	if _, err := s.providerRepo.GetByID(ctx, providerID); err != nil {
		return nil, err
	}
	return s.overrideRepo.ListUpcoming(ctx, providerID, dateOnly(s.now()))
}
