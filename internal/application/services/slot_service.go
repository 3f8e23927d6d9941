package services

import (
	"context"
	"time"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
)

// SlotService expands provider consultation templates into bookable slots
type SlotService struct {
	providerRepo    repositories.ProviderRepository
	reservationRepo repositories.ReservationRepository
}

// NewSlotService creates a new slot service
func NewSlotService(
	providerRepo repositories.ProviderRepository,
	reservationRepo repositories.ReservationRepository,
) *SlotService {
	return &SlotService{
		providerRepo:    providerRepo,
		reservationRepo: reservationRepo,
	}
}

// SlotsFor returns every slot of the provider's consultation template. The
// result is independent of bookings; a provider without a configured window
// gets an empty list, not an error.
func (s *SlotService) SlotsFor(ctx context.Context, providerID string) ([]entities.Slot, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return entities.GenerateSlots(provider.ConsultationStart, provider.ConsultationEnd), nil
}

// AvailableSlotsFor returns the template slots that have no CONFIRMED
// reservation for the given date. Date overrides are not consulted here;
// callers that care about blocked dates check the availability service.
func (s *SlotService) AvailableSlotsFor(ctx context.Context, providerID string, date time.Time) ([]entities.Slot, error) {
	slots, err := s.SlotsFor(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}

	bookedIDs, err := s.reservationRepo.BookedSlotIDs(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	booked := make(map[int]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	available := make([]entities.Slot, 0, len(slots))
	for _, slot := range slots {
		if !booked[slot.ID] {
			available = append(available, slot)
		}
	}
	return available, nil
}
