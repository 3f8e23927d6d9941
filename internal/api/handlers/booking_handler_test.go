package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medisched/backend/internal/domain/entities"
	apperrors "github.com/medisched/backend/pkg/errors"
)

type MockBookingOperations struct {
	mock.Mock
}

func (m *MockBookingOperations) Book(ctx context.Context, providerID, requesterID string, slotID int, date time.Time) (*entities.Reservation, error) {
	args := m.Called(ctx, providerID, requesterID, slotID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockBookingOperations) Cancel(ctx context.Context, reservationID, actorID string) error {
	args := m.Called(ctx, reservationID, actorID)
	return args.Error(0)
}

func (m *MockBookingOperations) Complete(ctx context.Context, reservationID string) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func (m *MockBookingOperations) ListForRequester(ctx context.Context, requesterID string) ([]*entities.Reservation, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

func (m *MockBookingOperations) ListForProvider(ctx context.Context, providerID string) ([]*entities.Reservation, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

func postJSON(t *testing.T, target string, body interface{}) *http.Request {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateBooking(t *testing.T) {
	bookings := new(MockBookingOperations)
	handler := NewBookingHandler(bookings)

	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	reservation := &entities.Reservation{
		ID:         "res-1",
		ProviderID: "prov-1",
		SlotID:     2,
		Status:     entities.ReservationStatusConfirmed,
	}
	bookings.On("Book", mock.Anything, "prov-1", "req-1", 2, date).Return(reservation, nil)

	req := postJSON(t, "/api/bookings", map[string]interface{}{
		"provider_id": "prov-1", "requester_id": "req-1", "slot_id": 2, "date": "2026-09-15",
	})
	rec := httptest.NewRecorder()
	handler.CreateBooking(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got entities.Reservation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "res-1", got.ID)
	bookings.AssertExpectations(t)
}

func TestCreateBooking_InvalidPayload(t *testing.T) {
	handler := NewBookingHandler(new(MockBookingOperations))

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	handler.CreateBooking(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_MissingFields(t *testing.T) {
	handler := NewBookingHandler(new(MockBookingOperations))

	req := postJSON(t, "/api/bookings", map[string]interface{}{
		"requester_id": "req-1", "slot_id": 2, "date": "2026-09-15",
	})
	rec := httptest.NewRecorder()
	handler.CreateBooking(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_BadDate(t *testing.T) {
	handler := NewBookingHandler(new(MockBookingOperations))

	req := postJSON(t, "/api/bookings", map[string]interface{}{
		"provider_id": "prov-1", "requester_id": "req-1", "slot_id": 2, "date": "15/09/2026",
	})
	rec := httptest.NewRecorder()
	handler.CreateBooking(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_ConflictMapsTo409(t *testing.T) {
	bookings := new(MockBookingOperations)
	handler := NewBookingHandler(bookings)

	bookings.On("Book", mock.Anything, "prov-1", "req-1", 2, mock.Anything).
		Return(nil, apperrors.NewConflictError("slot is already booked for this date"))

	req := postJSON(t, "/api/bookings", map[string]interface{}{
		"provider_id": "prov-1", "requester_id": "req-1", "slot_id": 2, "date": "2026-09-15",
	})
	rec := httptest.NewRecorder()
	handler.CreateBooking(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "slot is already booked for this date", body["error"])
}

func TestCancelBooking(t *testing.T) {
	bookings := new(MockBookingOperations)
	handler := NewBookingHandler(bookings)

	bookings.On("Cancel", mock.Anything, "res-1", "req-1").Return(nil)

	req := postJSON(t, "/api/bookings/res-1/cancel", map[string]string{"actor_id": "req-1"})
	req.SetPathValue("id", "res-1")
	rec := httptest.NewRecorder()
	handler.CancelBooking(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	bookings.AssertExpectations(t)
}

func TestCancelBooking_ForbiddenMapsTo403(t *testing.T) {
	bookings := new(MockBookingOperations)
	handler := NewBookingHandler(bookings)

	bookings.On("Cancel", mock.Anything, "res-1", "intruder").
		Return(apperrors.NewForbiddenError("only the requester or provider may cancel this reservation"))

	req := postJSON(t, "/api/bookings/res-1/cancel", map[string]string{"actor_id": "intruder"})
	req.SetPathValue("id", "res-1")
	rec := httptest.NewRecorder()
	handler.CancelBooking(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCompleteBooking_InvalidStateMapsTo422(t *testing.T) {
	bookings := new(MockBookingOperations)
	handler := NewBookingHandler(bookings)

	bookings.On("Complete", mock.Anything, "res-1").
		Return(apperrors.NewInvalidStateError("only confirmed reservations can be completed"))

	req := postJSON(t, "/api/bookings/res-1/complete", nil)
	req.SetPathValue("id", "res-1")
	rec := httptest.NewRecorder()
	handler.CompleteBooking(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListRequesterBookings_EmptyIsJSONArray(t *testing.T) {
	bookings := new(MockBookingOperations)
	handler := NewBookingHandler(bookings)

	bookings.On("ListForRequester", mock.Anything, "req-1").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/requesters/req-1/bookings", nil)
	req.SetPathValue("id", "req-1")
	rec := httptest.NewRecorder()
	handler.ListRequesterBookings(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListProviderBookings_NotFoundMapsTo404(t *testing.T) {
	bookings := new(MockBookingOperations)
	handler := NewBookingHandler(bookings)

	bookings.On("ListForProvider", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("provider with id missing not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/providers/missing/bookings", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	handler.ListProviderBookings(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
