package repositories

import (
	"context"
	"time"

	"github.com/medisched/backend/internal/domain/entities"
)

// OverrideRepository defines the interface for per-date availability
// exception storage.
type OverrideRepository interface {
	// GetByProviderAndDate retrieves the override for a (provider, date)
	// pair; a NOT_FOUND error means no override exists
	GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*entities.AvailabilityOverride, error)

	// Upsert writes an override, replacing any existing one for the same
	// (provider, date)
	Upsert(ctx context.Context, override *entities.AvailabilityOverride) error

	// Delete removes the override for a (provider, date) pair; deleting a
	// missing override is a no-op
	Delete(ctx context.Context, providerID string, date time.Time) error

	// ListUpcoming retrieves the provider's overrides dated on or after
	// the given date, in ascending date order
	ListUpcoming(ctx context.Context, providerID string, from time.Time) ([]*entities.AvailabilityOverride, error)
}
