package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tunadex/internal/domain"
)

// MockMailSource is a mock implementation of port.MailSource.
type MockMailSource struct {
	mock.Mock
}

func (m *MockMailSource) Search(ctx context.Context, target domain.Date, lookbackDays int) ([]domain.EmailMessage, error) {
	args := m.Called(ctx, target, lookbackDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmailMessage), args.Error(1)
}

func (m *MockMailSource) GetDetail(ctx context.Context, messageID string) (*domain.EmailDetail, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailDetail), args.Error(1)
}

func (m *MockMailSource) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	args := m.Called(ctx, messageID, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
