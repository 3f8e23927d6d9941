package services

import (
	"context"
	"time"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
	apperrors "github.com/medisched/backend/pkg/errors"
)

const (
	// How far ahead the single-provider next-available check looks.
	nextAvailableWindowDays = 7
	// How far ahead the cross-provider discovery search looks.
	searchWindowDays = 30
)

// AvailabilityService answers whether and how much a provider can be booked
// on a date, combining the recurring template, per-date overrides and the
// reservation ledger.
type AvailabilityService struct {
	providerRepo    repositories.ProviderRepository
	overrideRepo    repositories.OverrideRepository
	reservationRepo repositories.ReservationRepository
	now             func() time.Time
}

// NewAvailabilityService creates a new availability service. A nil now
// defaults to the wall clock; tests inject a fixed one.
func NewAvailabilityService(
	providerRepo repositories.ProviderRepository,
	overrideRepo repositories.OverrideRepository,
	reservationRepo repositories.ReservationRepository,
	now func() time.Time,
) *AvailabilityService {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{
		providerRepo:    providerRepo,
		overrideRepo:    overrideRepo,
		reservationRepo: reservationRepo,
		now:             now,
	}
}

// IsBlocked reports whether the provider is unbookable on the given date.
// An explicit override wins over the recurring off-day rule in both
// directions: is_available=false blocks an otherwise open weekday, and
// is_available=true opens an off-day.
func (s *AvailabilityService) IsBlocked(ctx context.Context, provider *entities.Provider, date time.Time) (bool, error) {
	override, err := s.overrideRepo.GetByProviderAndDate(ctx, provider.ID, date)
	if err == nil {
		return !override.IsAvailable, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return false, err
	}
	return provider.IsOffWeekday(date.Weekday()), nil
}

// CapacityFor returns the number of slots the provider's template yields.
func (s *AvailabilityService) CapacityFor(provider *entities.Provider) int {
	return len(entities.GenerateSlots(provider.ConsultationStart, provider.ConsultationEnd))
}

// NextAvailable scans the coming week, today included, for the first date
// on which the provider still has an open slot. A NOT_FOUND error means
// no opening inside the window.
func (s *AvailabilityService) NextAvailable(ctx context.Context, providerID string) (*entities.ProviderSummary, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	capacity := s.CapacityFor(provider)
	if capacity == 0 {
		return nil, apperrors.NewNotFoundError("provider has no consultation hours configured")
	}

	today := dateOnly(s.now())
	booked, err := s.reservationRepo.BookedSlotIDsBetween(ctx, providerID,
		today, today.AddDate(0, 0, nextAvailableWindowDays-1))
	if err != nil {
		return nil, err
	}

	for i := 0; i < nextAvailableWindowDays; i++ {
		date := today.AddDate(0, 0, i)

		blocked, err := s.IsBlocked(ctx, provider, date)
		if err != nil {
			return nil, err
		}
		if blocked {
			continue
		}

		open := capacity - len(booked[date.Format(entities.DateLayout)])
		if open > 0 {
			return &entities.ProviderSummary{
				Provider:          provider,
				NextAvailableDate: date,
				AvailableSlots:    open,
			}, nil
		}
	}

	return nil, apperrors.NewNotFoundError("no available slots in the next 7 days")
}

// SearchAvailableProviders builds the cross-provider discovery list: for
// each calendar date from today onward, every not-yet-listed provider with
// an open slot on that date is appended. The date-outer loop keeps the list
// ordered soonest-first; each provider appears at most once; the scan stops
// once limit rows are collected or the window is exhausted.
func (s *AvailabilityService) SearchAvailableProviders(ctx context.Context, speciality string, limit int) ([]*entities.ProviderSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	providers, err := s.providerRepo.List(ctx, speciality)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, nil
	}

	today := dateOnly(s.now())
	windowEnd := today.AddDate(0, 0, searchWindowDays-1)

	bookedByProvider := make(map[string]map[string][]int, len(providers))
	for _, provider := range providers {
		booked, err := s.reservationRepo.BookedSlotIDsBetween(ctx, provider.ID, today, windowEnd)
		if err != nil {
			return nil, err
		}
		bookedByProvider[provider.ID] = booked
	}

	var results []*entities.ProviderSummary
	listed := make(map[string]bool, len(providers))

	for i := 0; i < searchWindowDays && len(results) < limit; i++ {
		date := today.AddDate(0, 0, i)
		dateKey := date.Format(entities.DateLayout)

		for _, provider := range providers {
			if listed[provider.ID] {
				continue
			}

			capacity := s.CapacityFor(provider)
			if capacity == 0 {
				continue
			}

			blocked, err := s.IsBlocked(ctx, provider, date)
			if err != nil {
				return nil, err
			}
			if blocked {
				continue
			}

			open := capacity - len(bookedByProvider[provider.ID][dateKey])
			if open <= 0 {
				continue
			}

			listed[provider.ID] = true
			results = append(results, &entities.ProviderSummary{
				Provider:          provider,
				NextAvailableDate: date,
				AvailableSlots:    open,
			})
			if len(results) == limit {
				break
			}
		}
	}

	return results, nil
}
