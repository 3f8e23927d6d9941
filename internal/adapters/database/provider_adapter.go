package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
	"github.com/medisched/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medisched/backend/pkg/errors"
)

var providerColumns = []interface{}{
	"id", "name", "speciality", "email",
	"consultation_start", "consultation_end", "off_days",
	"created_at", "updated_at",
}

// ProviderAdapter implements the ProviderRepository interface
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a provider by ID
func (a *ProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	query, args, err := a.db.Select(providerColumns...).
		From("providers").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := executorFrom(ctx, a.client).QueryRowContext(ctx, query, args...)
	provider, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}
	return provider, nil
}

// List retrieves all providers, optionally filtered by speciality
func (a *ProviderAdapter) List(ctx context.Context, speciality string) ([]*entities.Provider, error) {
	ds := a.db.Select(providerColumns...).
		From("providers").
		Order(goqu.I("name").Asc())

	if strings.TrimSpace(speciality) != "" {
		ds = ds.Where(goqu.L("LOWER(speciality)").Eq(strings.ToLower(speciality)))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := executorFrom(ctx, a.client).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list providers", err)
	}
	defer rows.Close()

	var providers []*entities.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		providers = append(providers, provider)
	}
	return providers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*entities.Provider, error) {
	provider := &entities.Provider{}
	var speciality, email, start, end, offDays sql.NullString

	err := row.Scan(
		&provider.ID,
		&provider.Name,
		&speciality,
		&email,
		&start,
		&end,
		&offDays,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	provider.Speciality = speciality.String
	provider.Email = email.String
	provider.ConsultationStart = start.String
	provider.ConsultationEnd = end.String
	provider.OffDays = offDays.String
	return provider, nil
}
