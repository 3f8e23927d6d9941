package entities

import (
	"time"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation is a requester's claim on one slot of one provider for one
// date. For a fixed (provider, date, slot) tuple at most one reservation may
// be CONFIRMED at any time; the ledger enforces this with a partial unique
// index. CONFIRMED -> CANCELLED is the only status transition.
type Reservation struct {
	ID          string            `json:"id" db:"id"`
	ProviderID  string            `json:"provider_id" db:"provider_id"`
	RequesterID string            `json:"requester_id" db:"requester_id"`
	SlotID      int               `json:"slot_id" db:"slot_id"`
	Date        time.Time         `json:"date" db:"reservation_date"`
	TimeLabel   string            `json:"time_label" db:"time_label"`
	Status      ReservationStatus `json:"status" db:"status"`
	CompletedAt *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// DateString returns the reservation date in calendar form.
func (r *Reservation) DateString() string {
	return r.Date.Format(DateLayout)
}
