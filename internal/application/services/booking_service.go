package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
	apperrors "github.com/medisched/backend/pkg/errors"
)

// BookingService handles reservation lifecycle: book, cancel, complete.
// Book runs its ledger write and outbox enqueue inside one transaction so
// the notification obligation can never outlive or precede the booking.
type BookingService struct {
	transactor        repositories.Transactor
	reservationRepo   repositories.ReservationRepository
	providerRepo      repositories.ProviderRepository
	outboxRepo        repositories.OutboxRepository
	availability      *AvailabilityService
	bookingRoutingKey string
	now               func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	transactor repositories.Transactor,
	reservationRepo repositories.ReservationRepository,
	providerRepo repositories.ProviderRepository,
	outboxRepo repositories.OutboxRepository,
	availability *AvailabilityService,
	bookingRoutingKey string,
	now func() time.Time,
) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		transactor:        transactor,
		reservationRepo:   reservationRepo,
		providerRepo:      providerRepo,
		outboxRepo:        outboxRepo,
		availability:      availability,
		bookingRoutingKey: bookingRoutingKey,
		now:               now,
	}
}

// Book reserves a slot for the requester. The availability check before the
// transaction is advisory; the re-check inside it narrows the race window,
// and the ledger's uniqueness constraint closes it. A constraint rejection
// surfaces as CONFLICT.
func (s *BookingService) Book(ctx context.Context, providerID, requesterID string, slotID int, date time.Time) (*entities.Reservation, error) {
	date = dateOnly(date)
	if date.Before(dateOnly(s.now())) {
		return nil, apperrors.NewValidationError("cannot book a date in the past")
	}

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.availability.IsBlocked(ctx, provider, date)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperrors.NewValidationError("provider is not available on this date")
	}

	slot, ok := findSlot(provider, slotID)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("slot %d does not exist for this provider", slotID))
	}

	nowTime := s.now().UTC()
	reservation := &entities.Reservation{
		ID:          uuid.New().String(),
		ProviderID:  providerID,
		RequesterID: requesterID,
		SlotID:      slot.ID,
		Date:        date,
		TimeLabel:   fmt.Sprintf("%s - %s", slot.StartTime, slot.EndTime),
		Status:      entities.ReservationStatusConfirmed,
		CreatedAt:   nowTime,
		UpdatedAt:   nowTime,
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		bookedIDs, err := s.reservationRepo.BookedSlotIDs(ctx, providerID, date)
		if err != nil {
			return err
		}
		for _, id := range bookedIDs {
			if id == slot.ID {
				return apperrors.NewConflictError("slot is already booked for this date")
			}
		}

		if err := s.reservationRepo.Create(ctx, reservation); err != nil {
			return err
		}

		message, err := entities.NewOutboxMessage(entities.MessageTypeBooking, entities.BookingMessage{
			ReservationID: reservation.ID,
			ProviderID:    provider.ID,
			ProviderName:  provider.Name,
			ProviderEmail: provider.Email,
			RequesterID:   requesterID,
			Date:          reservation.DateString(),
			TimeLabel:     reservation.TimeLabel,
			SlotID:        slot.ID,
		}, s.bookingRoutingKey)
		if err != nil {
			return apperrors.NewInternalError("failed to serialize booking message", err)
		}
		return s.outboxRepo.Enqueue(ctx, message)
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// Cancel transitions a CONFIRMED reservation to CANCELLED. Only the
// reservation's provider or requester may cancel; a reservation that is not
// CONFIRMED cannot transition.
func (s *BookingService) Cancel(ctx context.Context, reservationID, actorID string) error {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	if actorID != reservation.ProviderID && actorID != reservation.RequesterID {
		return apperrors.NewForbiddenError("only the provider or requester may cancel this reservation")
	}
	if reservation.Status != entities.ReservationStatusConfirmed {
		return apperrors.NewInvalidStateError(
			fmt.Sprintf("reservation is %s and cannot be cancelled", reservation.Status))
	}

	return s.reservationRepo.UpdateStatus(ctx, reservationID, entities.ReservationStatusCancelled)
}

// Complete stamps a completion record on a CONFIRMED reservation, which
// spares it from the past-reservation sweep.
func (s *BookingService) Complete(ctx context.Context, reservationID string) error {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation.Status != entities.ReservationStatusConfirmed {
		return apperrors.NewInvalidStateError(
			fmt.Sprintf("reservation is %s and cannot be completed", reservation.Status))
	}
	return s.reservationRepo.MarkCompleted(ctx, reservationID, s.now().UTC())
}

// ListForRequester returns the requester's reservations, newest date first
func (s *BookingService) ListForRequester(ctx context.Context, requesterID string) ([]*entities.Reservation, error) {
	return s.reservationRepo.ListByRequester(ctx, requesterID)
}

// ListForProvider returns the provider's reservations, newest date first
func (s *BookingService) ListForProvider(ctx context.Context, providerID string) ([]*entities.Reservation, error) {
	return s.reservationRepo.ListByProvider(ctx, providerID)
}

func findSlot(provider *entities.Provider, slotID int) (entities.Slot, bool) {
	for _, slot := range entities.GenerateSlots(provider.ConsultationStart, provider.ConsultationEnd) {
		if slot.ID == slotID {
			return slot, true
		}
	}
	return entities.Slot{}, false
}
