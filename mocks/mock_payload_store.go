package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tunadex/internal/domain"
)

// MockPayloadStore is a mock implementation of port.PayloadStore.
type MockPayloadStore struct {
	mock.Mock
}

func (m *MockPayloadStore) Save(ctx context.Context, payload *domain.DailyPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockPayloadStore) Load(ctx context.Context, date domain.Date) (*domain.DailyPayload, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyPayload), args.Error(1)
}

func (m *MockPayloadStore) LoadRange(ctx context.Context, start, end domain.Date) ([]domain.DailyPayload, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyPayload), args.Error(1)
}

func (m *MockPayloadStore) ListDates(ctx context.Context) ([]domain.Date, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Date), args.Error(1)
}
