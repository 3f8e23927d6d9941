package repositories

import (
	"context"
	"time"

	"github.com/medisched/backend/internal/domain/entities"
)

// ReservationRepository defines the interface for booking-ledger operations.
// Methods invoked under a Transactor callback observe and join the ambient
// transaction.
type ReservationRepository interface {
	// Create inserts a new reservation. When a CONFIRMED reservation for
	// the same (provider, date, slot) already exists the ledger's
	// uniqueness constraint rejects the insert and a CONFLICT error is
	// returned.
	Create(ctx context.Context, reservation *entities.Reservation) error

	// GetByID retrieves a reservation by ID
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)

	// UpdateStatus transitions a CONFIRMED reservation to the given status.
	// Returns INVALID_STATE when the reservation is missing or no longer
	// CONFIRMED.
	UpdateStatus(ctx context.Context, id string, status entities.ReservationStatus) error

	// MarkCompleted stamps the completion record on a reservation
	MarkCompleted(ctx context.Context, id string, completedAt time.Time) error

	// BookedSlotIDs returns the slot IDs with a CONFIRMED reservation for
	// the provider on the given date
	BookedSlotIDs(ctx context.Context, providerID string, date time.Time) ([]int, error)

	// BookedSlotIDsBetween returns CONFIRMED slot IDs for the provider
	// grouped by date (DateLayout keys) over [from, to]
	BookedSlotIDsBetween(ctx context.Context, providerID string, from, to time.Time) (map[string][]int, error)

	// CancelConfirmedOnDate cancels every CONFIRMED reservation for the
	// provider on the given date and returns the reservations it cancelled
	CancelConfirmedOnDate(ctx context.Context, providerID string, date time.Time) ([]*entities.Reservation, error)

	// ListPastConfirmedUncompleted returns CONFIRMED reservations dated
	// strictly before the given date that carry no completion record
	ListPastConfirmedUncompleted(ctx context.Context, before time.Time) ([]*entities.Reservation, error)

	// ListByRequester retrieves a requester's reservations, newest date first
	ListByRequester(ctx context.Context, requesterID string) ([]*entities.Reservation, error)

	// ListByProvider retrieves a provider's reservations, newest date first
	ListByProvider(ctx context.Context, providerID string) ([]*entities.Reservation, error)
}
