package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
)

// MaintenanceService reconciles the ledger with the calendar on startup.
type MaintenanceService struct {
	reservationRepo repositories.ReservationRepository
	logger          zerolog.Logger
	now             func() time.Time
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	reservationRepo repositories.ReservationRepository,
	logger zerolog.Logger,
	now func() time.Time,
) *MaintenanceService {
	if now == nil {
		now = time.Now
	}
	return &MaintenanceService{
		reservationRepo: reservationRepo,
		logger:          logger,
		now:             now,
	}
}

// SweepPastReservations force-cancels CONFIRMED reservations dated before
// today that carry no completion record. Individual failures are logged and
// skipped so one bad row cannot abort the sweep. Returns the number of
// reservations cancelled.
func (s *MaintenanceService) SweepPastReservations(ctx context.Context) (int, error) {
	today := dateOnly(s.now())

	stale, err := s.reservationRepo.ListPastConfirmedUncompleted(ctx, today)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, reservation := range stale {
		if err := s.reservationRepo.UpdateStatus(ctx, reservation.ID, entities.ReservationStatusCancelled); err != nil {
			s.logger.Error().
				Err(err).
				Str("reservation_id", reservation.ID).
				Str("date", reservation.DateString()).
				Msg("failed to cancel stale reservation")
			continue
		}
		cancelled++
	}

	if len(stale) > 0 {
		s.logger.Info().
			Int("stale", len(stale)).
			Int("cancelled", cancelled).
			Msg("past reservation sweep finished")
	}
	return cancelled, nil
}
