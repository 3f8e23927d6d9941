package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medisched/backend/internal/domain/entities"
	apperrors "github.com/medisched/backend/pkg/errors"
)

func newScheduleService(
	providerRepo *MockProviderRepo,
	overrideRepo *MockOverrideRepo,
	reservationRepo *MockReservationRepo,
	outboxRepo *MockOutboxRepo,
) *ScheduleService {
	return NewScheduleService(
		passthroughTransactor{},
		providerRepo,
		overrideRepo,
		reservationRepo,
		outboxRepo,
		"cancellation.key",
		fixedClock(testNow),
	)
}

func TestBlockDate_CascadeCancelsAndEnqueues(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	providerRepo := new(MockProviderRepo)
	providerRepo.On("GetByID", mock.Anything, "prov-1").Return(openProvider("prov-1"), nil)

	overrideRepo := new(MockOverrideRepo)
	overrideRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.AvailabilityOverride")).Return(nil)

	cancelled := []*entities.Reservation{
		{ID: "res-1", ProviderID: "prov-1", RequesterID: "req-1", SlotID: 1, Date: date, TimeLabel: "09:00 AM - 09:20 AM"},
		{ID: "res-2", ProviderID: "prov-1", RequesterID: "req-2", SlotID: 3, Date: date, TimeLabel: "09:40 AM - 10:00 AM"},
	}
	reservationRepo := new(MockReservationRepo)
	reservationRepo.On("CancelConfirmedOnDate", mock.Anything, "prov-1", date).Return(cancelled, nil)

	outboxRepo := new(MockOutboxRepo)
	outboxRepo.On("Enqueue", mock.Anything, mock.AnythingOfType("*entities.OutboxMessage")).Return(nil)

	service := newScheduleService(providerRepo, overrideRepo, reservationRepo, outboxRepo)

	count, err := service.BlockDate(context.Background(), "prov-1", date)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// One CANCELLATION entry per cascaded reservation.
	outboxRepo.AssertNumberOfCalls(t, "Enqueue", 2)

	first := outboxRepo.Calls[0].Arguments.Get(1).(*entities.OutboxMessage)
	assert.Equal(t, entities.MessageTypeCancellation, first.MessageType)
	assert.Equal(t, "cancellation.key", first.RoutingKey)

	var payload entities.CancellationMessage
	require.NoError(t, json.Unmarshal(first.Payload, &payload))
	assert.Equal(t, "res-1", payload.ReservationID)
	assert.Equal(t, "req-1", payload.RequesterID)
	assert.NotEmpty(t, payload.Reason)

	// The override that was written blocks the date.
	written := overrideRepo.Calls[0].Arguments.Get(1).(*entities.AvailabilityOverride)
	assert.False(t, written.IsAvailable)
	assert.Equal(t, date, written.Date)
}

func TestBlockDate_EmptyDay(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	providerRepo := new(MockProviderRepo)
	providerRepo.On("GetByID", mock.Anything, "prov-1").Return(openProvider("prov-1"), nil)

	overrideRepo := new(MockOverrideRepo)
	overrideRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	reservationRepo := new(MockReservationRepo)
	reservationRepo.On("CancelConfirmedOnDate", mock.Anything, "prov-1", date).
		Return([]*entities.Reservation{}, nil)

	outboxRepo := new(MockOutboxRepo)

	service := newScheduleService(providerRepo, overrideRepo, reservationRepo, outboxRepo)

	count, err := service.BlockDate(context.Background(), "prov-1", date)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	outboxRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestBlockDate_PastDate(t *testing.T) {
	service := newScheduleService(new(MockProviderRepo), new(MockOverrideRepo), new(MockReservationRepo), new(MockOutboxRepo))

	_, err := service.BlockDate(context.Background(), "prov-1",
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestBlockDate_TodayWithClockWestOfUTC(t *testing.T) {
	localNow := time.Date(2026, 9, 15, 8, 0, 0, 0, time.FixedZone("UTC-5", -5*3600))
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	providerRepo := new(MockProviderRepo)
	providerRepo.On("GetByID", mock.Anything, "prov-1").Return(openProvider("prov-1"), nil)

	overrideRepo := new(MockOverrideRepo)
	overrideRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	reservationRepo := new(MockReservationRepo)
	reservationRepo.On("CancelConfirmedOnDate", mock.Anything, "prov-1", date).
		Return([]*entities.Reservation{}, nil)

	service := NewScheduleService(
		passthroughTransactor{},
		providerRepo,
		overrideRepo,
		reservationRepo,
		new(MockOutboxRepo),
		"cancellation.key",
		fixedClock(localNow),
	)

	count, err := service.BlockDate(context.Background(), "prov-1", date)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBlockDate_EnqueueFailureAbortsUnit(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	providerRepo := new(MockProviderRepo)
	providerRepo.On("GetByID", mock.Anything, "prov-1").Return(openProvider("prov-1"), nil)

	overrideRepo := new(MockOverrideRepo)
	overrideRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	reservationRepo := new(MockReservationRepo)
	reservationRepo.On("CancelConfirmedOnDate", mock.Anything, "prov-1", date).
		Return([]*entities.Reservation{{ID: "res-1", RequesterID: "req-1"}}, nil)

	outboxRepo := new(MockOutboxRepo)
	outboxRepo.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	service := newScheduleService(providerRepo, overrideRepo, reservationRepo, outboxRepo)

	_, err := service.BlockDate(context.Background(), "prov-1", date)
	assert.Error(t, err)
}

func TestUnblockDate_Idempotent(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	providerRepo := new(MockProviderRepo)
	providerRepo.On("GetByID", mock.Anything, "prov-1").Return(openProvider("prov-1"), nil)

	overrideRepo := new(MockOverrideRepo)
	overrideRepo.On("Delete", mock.Anything, "prov-1", date).Return(nil)

	service := newScheduleService(providerRepo, overrideRepo, new(MockReservationRepo), new(MockOutboxRepo))

	require.NoError(t, service.UnblockDate(context.Background(), "prov-1", date))
	require.NoError(t, service.UnblockDate(context.Background(), "prov-1", date))
}

func TestUpcomingBlocks(t *testing.T) {
	providerRepo := new(MockProviderRepo)
	providerRepo.On("GetByID", mock.Anything, "prov-1").Return(openProvider("prov-1"), nil)

	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	blocks := []*entities.AvailabilityOverride{
		{ID: "ov-1", ProviderID: "prov-1", Date: today.AddDate(0, 0, 3), IsAvailable: false},
	}
	overrideRepo := new(MockOverrideRepo)
	overrideRepo.On("ListUpcoming", mock.Anything, "prov-1", today).Return(blocks, nil)

	service := newScheduleService(providerRepo, overrideRepo, new(MockReservationRepo), new(MockOutboxRepo))

	got, err := service.UpcomingBlocks(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.Equal(t, blocks, got)
}
