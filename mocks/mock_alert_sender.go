package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tunadex/internal/domain"
)

// MockAlertSender is a mock implementation of port.AlertSender.
type MockAlertSender struct {
	mock.Mock
}

func (m *MockAlertSender) SendAnomalyDigest(ctx context.Context, payload *domain.DailyPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
