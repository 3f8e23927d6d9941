package repositories

import (
	"context"

	"github.com/medisched/backend/internal/domain/entities"
)

// ProviderRepository defines read access to provider profiles. Profile
// mutation belongs to the external profile service, so no write methods
// exist here.
type ProviderRepository interface {
	// GetByID retrieves a provider by ID
	GetByID(ctx context.Context, id string) (*entities.Provider, error)

	// List retrieves all providers, optionally filtered by speciality
	// (case-insensitive exact match; empty string means no filter)
	List(ctx context.Context, speciality string) ([]*entities.Provider, error)
}
