package entities

import (
	"time"
)

// AvailabilityOverride is an explicit per-date availability exception for a
// provider. At most one exists per (provider, date): writing a new one for
// the same date replaces the previous value. IsAvailable=false marks the
// whole date unbookable regardless of the recurring template; true (or no
// override at all) lets the template govern.
type AvailabilityOverride struct {
	ID          string    `json:"id" db:"id"`
	ProviderID  string    `json:"provider_id" db:"provider_id"`
	Date        time.Time `json:"date" db:"override_date"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
