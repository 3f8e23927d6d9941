package services

import (
	"context"
	"time"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
	apperrors "github.com/medisched/backend/pkg/errors"
)

// CalendarService renders a provider's month as per-day booking statuses
type CalendarService struct {
	providerRepo    repositories.ProviderRepository
	reservationRepo repositories.ReservationRepository
	availability    *AvailabilityService
	now             func() time.Time
}

// NewCalendarService creates a new calendar service
func NewCalendarService(
	providerRepo repositories.ProviderRepository,
	reservationRepo repositories.ReservationRepository,
	availability *AvailabilityService,
	now func() time.Time,
) *CalendarService {
	if now == nil {
		now = time.Now
	}
	return &CalendarService{
		providerRepo:    providerRepo,
		reservationRepo: reservationRepo,
		availability:    availability,
		now:             now,
	}
}

// MonthView returns one DayStatus per day of the given month. Status
// precedence per day: past, then off, then full, then partial, then
// available. A provider without consultation hours reports every non-past
// day as off.
func (s *CalendarService) MonthView(ctx context.Context, providerID string, year, month int) ([]entities.DayStatus, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.NewValidationError("month must be between 1 and 12")
	}
	if year < 1 {
		return nil, apperrors.NewValidationError("year must be positive")
	}

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	booked, err := s.reservationRepo.BookedSlotIDsBetween(ctx, providerID, first, last)
	if err != nil {
		return nil, err
	}

	capacity := s.availability.CapacityFor(provider)
	today := dateOnly(s.now().UTC())

	days := make([]entities.DayStatus, 0, last.Day())
	for d := 1; d <= last.Day(); d++ {
		date := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
		dateKey := date.Format(entities.DateLayout)
		bookedCount := len(booked[dateKey])

		status, available, err := s.dayStatus(ctx, provider, date, today, capacity, bookedCount)
		if err != nil {
			return nil, err
		}

		days = append(days, entities.DayStatus{
			Date:           dateKey,
			Status:         status,
			BookedCount:    bookedCount,
			AvailableCount: available,
			IsToday:        date.Equal(today),
			DayName:        date.Weekday().String(),
		})
	}
	return days, nil
}

func (s *CalendarService) dayStatus(ctx context.Context, provider *entities.Provider, date, today time.Time, capacity, bookedCount int) (string, int, error) {
	if date.Before(today) {
		return entities.DayStatusPast, 0, nil
	}

	blocked, err := s.availability.IsBlocked(ctx, provider, date)
	if err != nil {
		return "", 0, err
	}
	if blocked || capacity == 0 {
		return entities.DayStatusOff, 0, nil
	}

	available := capacity - bookedCount
	if available < 0 {
		available = 0
	}

	switch {
	case available == 0:
		return entities.DayStatusFull, 0, nil
	case bookedCount > 0:
		return entities.DayStatusPartial, available, nil
	default:
		return entities.DayStatusAvailable, available, nil
	}
}
