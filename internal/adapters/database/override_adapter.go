package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
	"github.com/medisched/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medisched/backend/pkg/errors"
)

var overrideColumns = []interface{}{
	"id", "provider_id", "override_date", "is_available", "created_at",
}

// OverrideAdapter implements the OverrideRepository interface
type OverrideAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOverrideAdapter creates a new override adapter
func NewOverrideAdapter(client *postgres.Client) repositories.OverrideRepository {
	return &OverrideAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByProviderAndDate retrieves the override for a (provider, date) pair
func (a *OverrideAdapter) GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*entities.AvailabilityOverride, error) {
	query, args, err := a.db.Select(overrideColumns...).
		From("availability_overrides").
		Where(goqu.Ex{
			"provider_id":   providerID,
			"override_date": date.Format(entities.DateLayout),
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := executorFrom(ctx, a.client).QueryRowContext(ctx, query, args...)
	override, err := scanOverride(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf(
			"no override for provider %s on %s", providerID, date.Format(entities.DateLayout)))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get override", err)
	}
	return override, nil
}

// Upsert writes an override, replacing any existing one for the same
// (provider, date). The table's UNIQUE(provider_id, override_date)
// constraint drives the conflict target.
func (a *OverrideAdapter) Upsert(ctx context.Context, override *entities.AvailabilityOverride) error {
	query := `
		INSERT INTO availability_overrides (id, provider_id, override_date, is_available, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider_id, override_date)
		DO UPDATE SET is_available = EXCLUDED.is_available`

	_, err := executorFrom(ctx, a.client).ExecContext(ctx, query,
		override.ID,
		override.ProviderID,
		override.Date.Format(entities.DateLayout),
		override.IsAvailable,
		override.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to upsert override", err)
	}
	return nil
}

// Delete removes the override for a (provider, date) pair; deleting a
// missing override is a no-op
func (a *OverrideAdapter) Delete(ctx context.Context, providerID string, date time.Time) error {
	query, args, err := a.db.Delete("availability_overrides").
		Where(goqu.Ex{
			"provider_id":   providerID,
			"override_date": date.Format(entities.DateLayout),
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := executorFrom(ctx, a.client).ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete override", err)
	}
	return nil
}

// ListUpcoming retrieves the provider's overrides dated on or after the
// given date, in ascending date order
func (a *OverrideAdapter) ListUpcoming(ctx context.Context, providerID string, from time.Time) ([]*entities.AvailabilityOverride, error) {
	query, args, err := a.db.Select(overrideColumns...).
		From("availability_overrides").
		Where(
			goqu.Ex{"provider_id": providerID},
			goqu.C("override_date").Gte(from.Format(entities.DateLayout)),
		).
		Order(goqu.I("override_date").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := executorFrom(ctx, a.client).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list overrides", err)
	}
	defer rows.Close()

	var overrides []*entities.AvailabilityOverride
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan override", err)
		}
		overrides = append(overrides, override)
	}
	return overrides, rows.Err()
}

func scanOverride(row rowScanner) (*entities.AvailabilityOverride, error) {
	override := &entities.AvailabilityOverride{}
	err := row.Scan(
		&override.ID,
		&override.ProviderID,
		&override.Date,
		&override.IsAvailable,
		&override.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return override, nil
}
