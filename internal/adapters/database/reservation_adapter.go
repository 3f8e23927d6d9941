package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/repositories"
	"github.com/medisched/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medisched/backend/pkg/errors"
)

// pqUniqueViolation is the Postgres error code raised when the partial
// unique index on CONFIRMED reservations rejects a duplicate booking.
const pqUniqueViolation = "23505"

var reservationColumns = []interface{}{
	"id", "provider_id", "requester_id", "slot_id",
	"reservation_date", "time_label", "status", "completed_at",
	"created_at", "updated_at",
}

// ReservationAdapter implements the ReservationRepository interface
type ReservationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new reservation, translating the ledger's uniqueness
// violation into a CONFLICT error.
func (a *ReservationAdapter) Create(ctx context.Context, reservation *entities.Reservation) error {
	query, args, err := a.db.Insert("reservations").
		Rows(goqu.Record{
			"id":               reservation.ID,
			"provider_id":      reservation.ProviderID,
			"requester_id":     reservation.RequesterID,
			"slot_id":          reservation.SlotID,
			"reservation_date": reservation.Date.Format(entities.DateLayout),
			"time_label":       reservation.TimeLabel,
			"status":           reservation.Status,
			"created_at":       reservation.CreatedAt,
			"updated_at":       reservation.UpdatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := executorFrom(ctx, a.client).ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
			return apperrors.NewConflictError("slot is already booked for this date")
		}
		return apperrors.NewInternalError("failed to create reservation", err)
	}
	return nil
}

// GetByID retrieves a reservation by ID
func (a *ReservationAdapter) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := executorFrom(ctx, a.client).QueryRowContext(ctx, query, args...)
	reservation, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}
	return reservation, nil
}

// UpdateStatus transitions a CONFIRMED reservation to the given status. The
// status guard lives in the UPDATE itself so a cancelled or completed row can
// never be moved again, even by racing callers.
func (a *ReservationAdapter) UpdateStatus(ctx context.Context, id string, status entities.ReservationStatus) error {
	query, args, err := a.db.Update("reservations").
		Set(goqu.Record{
			"status":     status,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{
			"id":     id,
			"status": entities.ReservationStatusConfirmed,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := executorFrom(ctx, a.client).ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update reservation status", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewInvalidStateError(fmt.Sprintf("reservation %s is not in CONFIRMED state", id))
	}
	return nil
}

// MarkCompleted stamps the completion record on a reservation
func (a *ReservationAdapter) MarkCompleted(ctx context.Context, id string, completedAt time.Time) error {
	query, args, err := a.db.Update("reservations").
		Set(goqu.Record{
			"completed_at": completedAt,
			"updated_at":   goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := executorFrom(ctx, a.client).ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to mark reservation completed", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}
	return nil
}

// BookedSlotIDs returns the slot IDs with a CONFIRMED reservation for the
// provider on the given date
func (a *ReservationAdapter) BookedSlotIDs(ctx context.Context, providerID string, date time.Time) ([]int, error) {
	query, args, err := a.db.Select("slot_id").
		From("reservations").
		Where(goqu.Ex{
			"provider_id":      providerID,
			"reservation_date": date.Format(entities.DateLayout),
			"status":           entities.ReservationStatusConfirmed,
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := executorFrom(ctx, a.client).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query booked slots", err)
	}
	defer rows.Close()

	var slotIDs []int
	for rows.Next() {
		var slotID int
		if err := rows.Scan(&slotID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan slot id", err)
		}
		slotIDs = append(slotIDs, slotID)
	}
	return slotIDs, rows.Err()
}

// BookedSlotIDsBetween returns CONFIRMED slot IDs for the provider grouped
// by date over [from, to]
func (a *ReservationAdapter) BookedSlotIDsBetween(ctx context.Context, providerID string, from, to time.Time) (map[string][]int, error) {
	query, args, err := a.db.Select("reservation_date", "slot_id").
		From("reservations").
		Where(
			goqu.Ex{
				"provider_id": providerID,
				"status":      entities.ReservationStatusConfirmed,
			},
			goqu.C("reservation_date").Gte(from.Format(entities.DateLayout)),
			goqu.C("reservation_date").Lte(to.Format(entities.DateLayout)),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := executorFrom(ctx, a.client).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query booked slots", err)
	}
	defer rows.Close()

	booked := make(map[string][]int)
	for rows.Next() {
		var date time.Time
		var slotID int
		if err := rows.Scan(&date, &slotID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan booked slot", err)
		}
		key := date.Format(entities.DateLayout)
		booked[key] = append(booked[key], slotID)
	}
	return booked, rows.Err()
}

// CancelConfirmedOnDate cancels every CONFIRMED reservation for the
// provider on the given date and returns the reservations it cancelled
func (a *ReservationAdapter) CancelConfirmedOnDate(ctx context.Context, providerID string, date time.Time) ([]*entities.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = NOW()
		WHERE provider_id = $2 AND reservation_date = $3 AND status = $4
		RETURNING id, provider_id, requester_id, slot_id,
		          reservation_date, time_label, status, completed_at,
		          created_at, updated_at`

	rows, err := executorFrom(ctx, a.client).QueryContext(ctx, query,
		entities.ReservationStatusCancelled,
		providerID,
		date.Format(entities.DateLayout),
		entities.ReservationStatusConfirmed,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to cancel reservations", err)
	}
	defer rows.Close()

	var cancelled []*entities.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan cancelled reservation", err)
		}
		cancelled = append(cancelled, reservation)
	}
	return cancelled, rows.Err()
}

// ListPastConfirmedUncompleted returns CONFIRMED reservations dated strictly
// before the given date that carry no completion record
func (a *ReservationAdapter) ListPastConfirmedUncompleted(ctx context.Context, before time.Time) ([]*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(
			goqu.Ex{"status": entities.ReservationStatusConfirmed},
			goqu.C("reservation_date").Lt(before.Format(entities.DateLayout)),
			goqu.C("completed_at").IsNull(),
		).
		Order(goqu.I("reservation_date").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryReservations(ctx, query, args)
}

// ListByRequester retrieves a requester's reservations, newest date first
func (a *ReservationAdapter) ListByRequester(ctx context.Context, requesterID string) ([]*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(goqu.Ex{"requester_id": requesterID}).
		Order(goqu.I("reservation_date").Desc(), goqu.I("slot_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryReservations(ctx, query, args)
}

// ListByProvider retrieves a provider's reservations, newest date first
func (a *ReservationAdapter) ListByProvider(ctx context.Context, providerID string) ([]*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(goqu.Ex{"provider_id": providerID}).
		Order(goqu.I("reservation_date").Desc(), goqu.I("slot_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryReservations(ctx, query, args)
}

func (a *ReservationAdapter) queryReservations(ctx context.Context, query string, args []interface{}) ([]*entities.Reservation, error) {
	rows, err := executorFrom(ctx, a.client).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query reservations", err)
	}
	defer rows.Close()

	var reservations []*entities.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan reservation", err)
		}
		reservations = append(reservations, reservation)
	}
	return reservations, rows.Err()
}

func scanReservation(row rowScanner) (*entities.Reservation, error) {
	reservation := &entities.Reservation{}
	var timeLabel sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&reservation.ID,
		&reservation.ProviderID,
		&reservation.RequesterID,
		&reservation.SlotID,
		&reservation.Date,
		&timeLabel,
		&reservation.Status,
		&completedAt,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	reservation.TimeLabel = timeLabel.String
	if completedAt.Valid {
		reservation.CompletedAt = &completedAt.Time
	}
	return reservation, nil
}
