package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tunadex/internal/domain"
	"tunadex/internal/service"
)

// MockTrawlService is a mock implementation of service.TrawlService.
type MockTrawlService struct {
	mock.Mock
}

func (m *MockTrawlService) Run(ctx context.Context, target domain.Date) (*domain.DailyPayload, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyPayload), args.Error(1)
}

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Daily(ctx context.Context, date domain.Date) (*service.Report, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}

func (m *MockReportService) Weekly(ctx context.Context, anchor domain.Date) (*service.Report, error) {
	args := m.Called(ctx, anchor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}

func (m *MockReportService) Monthly(ctx context.Context, anchor domain.Date) (*service.Report, error) {
	args := m.Called(ctx, anchor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}
