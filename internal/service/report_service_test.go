package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tunadex/internal/config"
	"tunadex/internal/domain"
	"tunadex/internal/port"
	"tunadex/mocks"
)

func reportPayload(t *testing.T, date string) *domain.DailyPayload {
	t.Helper()
	p := &domain.DailyPayload{
		Date:            mustDate(t, date),
		RunTimestamp:    time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
		EmailsProcessed: 1,
		Shipments:       []domain.Shipment{shipmentFixture(t, "123-4567-8901")},
	}
	p.ComputeTotals()
	return p
}

func TestReportDaily(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	objects := new(mocks.MockObjectStorage)
	cfg := &config.Config{S3: config.S3Config{Bucket: "tunadex-test"}}
	svc := NewReportService(store, objects, cfg)

	date := mustDate(t, "2025-03-10")
	store.On("Load", mock.Anything, date).Return(reportPayload(t, "2025-03-10"), nil)

	var uploadedKey string
	objects.On("Upload", mock.Anything, mock.MatchedBy(func(input port.UploadInput) bool {
		uploadedKey = input.Key
		return input.ContentType == "text/html"
	})).Return(&port.UploadOutput{}, nil)

	r, err := svc.Daily(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, "daily", r.Type)
	assert.Contains(t, r.Markdown, "# TunaDex Daily Report - 2025-03-10")
	assert.Contains(t, r.HTML, "Plotly.newPlot")
	assert.Equal(t, "reports/daily/2025-03-10.html", uploadedKey)
}

func TestReportDaily_NotFound(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	svc := NewReportService(store, nil, &config.Config{})

	date := mustDate(t, "2025-03-10")
	store.On("Load", mock.Anything, date).Return(nil, domain.ErrPayloadNotFound)

	_, err := svc.Daily(context.Background(), date)
	assert.ErrorIs(t, err, domain.ErrPayloadNotFound)
}

func TestReportWeekly_WindowFromAnchor(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	svc := NewReportService(store, nil, &config.Config{})

	// 2025-03-12 is a Wednesday; the week runs 03-10 through 03-16.
	anchor := mustDate(t, "2025-03-12")
	start := mustDate(t, "2025-03-10")
	end := mustDate(t, "2025-03-16")
	store.On("LoadRange", mock.Anything, start, end).Return([]domain.DailyPayload{
		*reportPayload(t, "2025-03-10"),
		*reportPayload(t, "2025-03-12"),
	}, nil)

	r, err := svc.Weekly(context.Background(), anchor)
	require.NoError(t, err)

	assert.Equal(t, start, r.Start)
	assert.Equal(t, end, r.End)
	assert.Contains(t, r.Markdown, "- Days with data: 2")
}

func TestReportMonthly_WindowFromAnchor(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	svc := NewReportService(store, nil, &config.Config{})

	anchor := mustDate(t, "2025-03-12")
	start := mustDate(t, "2025-03-01")
	end := mustDate(t, "2025-03-31")
	store.On("LoadRange", mock.Anything, start, end).Return([]domain.DailyPayload{
		*reportPayload(t, "2025-03-10"),
	}, nil)

	r, err := svc.Monthly(context.Background(), anchor)
	require.NoError(t, err)

	assert.Equal(t, "monthly", r.Type)
	assert.Contains(t, r.Markdown, "# TunaDex Monthly Report - March 2025")
}

func TestReportWeekly_EmptyRange(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	svc := NewReportService(store, nil, &config.Config{})

	anchor := mustDate(t, "2025-03-12")
	store.On("LoadRange", mock.Anything, mock.Anything, mock.Anything).Return([]domain.DailyPayload{}, nil)

	r, err := svc.Weekly(context.Background(), anchor)
	require.NoError(t, err)
	assert.Contains(t, r.Markdown, "No data available for this period.")
}
