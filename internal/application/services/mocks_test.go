package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/medisched/backend/internal/domain/entities"
)

// Mocks shared by the service tests.

type MockProviderRepo struct {
	mock.Mock
}

func (m *MockProviderRepo) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepo) List(ctx context.Context, speciality string) ([]*entities.Provider, error) {
	args := m.Called(ctx, speciality)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Provider), args.Error(1)
}

type MockOverrideRepo struct {
	mock.Mock
}

func (m *MockOverrideRepo) GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*entities.AvailabilityOverride, error) {
	args := m.Called(ctx, providerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AvailabilityOverride), args.Error(1)
}

func (m *MockOverrideRepo) Upsert(ctx context.Context, override *entities.AvailabilityOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockOverrideRepo) Delete(ctx context.Context, providerID string, date time.Time) error {
	args := m.Called(ctx, providerID, date)
	return args.Error(0)
}

func (m *MockOverrideRepo) ListUpcoming(ctx context.Context, providerID string, from time.Time) ([]*entities.AvailabilityOverride, error) {
	args := m.Called(ctx, providerID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AvailabilityOverride), args.Error(1)
}

type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, reservation *entities.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationRepo) UpdateStatus(ctx context.Context, id string, status entities.ReservationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReservationRepo) MarkCompleted(ctx context.Context, id string, completedAt time.Time) error {
	args := m.Called(ctx, id, completedAt)
	return args.Error(0)
}

func (m *MockReservationRepo) BookedSlotIDs(ctx context.Context, providerID string, date time.Time) ([]int, error) {
	args := m.Called(ctx, providerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockReservationRepo) BookedSlotIDsBetween(ctx context.Context, providerID string, from, to time.Time) (map[string][]int, error) {
	args := m.Called(ctx, providerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]int), args.Error(1)
}

func (m *MockReservationRepo) CancelConfirmedOnDate(ctx context.Context, providerID string, date time.Time) ([]*entities.Reservation, error) {
	args := m.Called(ctx, providerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListPastConfirmedUncompleted(ctx context.Context, before time.Time) ([]*entities.Reservation, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListByRequester(ctx context.Context, requesterID string) ([]*entities.Reservation, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListByProvider(ctx context.Context, providerID string) ([]*entities.Reservation, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Enqueue(ctx context.Context, message *entities.OutboxMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) ListDispatchable(ctx context.Context, status entities.OutboxStatus, maxRetries, limit int) ([]*entities.OutboxMessage, error) {
	args := m.Called(ctx, status, maxRetries, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepo) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockOutboxRepo) MarkFailed(ctx context.Context, id string, deliveryErr string) error {
	args := m.Called(ctx, id, deliveryErr)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, routingKey string, v interface{}) error {
	args := m.Called(ctx, routingKey, v)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// passthroughTransactor runs the callback without a real transaction.
type passthroughTransactor struct{}

func (passthroughTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
