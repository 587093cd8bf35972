package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tunadex/internal/config"
	"tunadex/internal/domain"
	"tunadex/internal/port"
	"tunadex/internal/report"
)

// Report bundles a rendered report with the payloads behind it.
type Report struct {
	Type     string                `json:"type"`
	Start    domain.Date           `json:"start"`
	End      domain.Date           `json:"end"`
	Markdown string                `json:"markdown"`
	HTML     string                `json:"html,omitempty"`
	Payloads []domain.DailyPayload `json:"-"`
}

// ReportService renders daily, weekly, and monthly reports from persisted
// payloads.
type ReportService interface {
	Daily(ctx context.Context, date domain.Date) (*Report, error)
	Weekly(ctx context.Context, anchor domain.Date) (*Report, error)
	Monthly(ctx context.Context, anchor domain.Date) (*Report, error)
}

type reportService struct {
	store   port.PayloadStore
	objects port.ObjectStorage
	cfg     *config.Config
}

// NewReportService creates a ReportService reading from store. objects may
// be nil; when set, rendered HTML is archived to S3.
func NewReportService(store port.PayloadStore, objects port.ObjectStorage, cfg *config.Config) ReportService {
	return &reportService{store: store, objects: objects, cfg: cfg}
}

func (s *reportService) Daily(ctx context.Context, date domain.Date) (*Report, error) {
	payload, err := s.store.Load(ctx, date)
	if err != nil {
		return nil, err
	}

	markdown := report.DailySummary(payload)
	return s.finish(ctx, "daily", date, date, markdown, []domain.DailyPayload{*payload})
}

// Weekly reports the Monday-to-Sunday week containing anchor.
func (s *reportService) Weekly(ctx context.Context, anchor domain.Date) (*Report, error) {
	start := anchor.StartOfWeek()
	end := start.AddDays(6)

	payloads, err := s.store.LoadRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	markdown := report.WeeklySummary(payloads)
	return s.finish(ctx, "weekly", start, end, markdown, payloads)
}

// Monthly reports the calendar month containing anchor.
func (s *reportService) Monthly(ctx context.Context, anchor domain.Date) (*Report, error) {
	start := anchor.StartOfMonth()
	end := anchor.EndOfMonth()

	payloads, err := s.store.LoadRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	markdown := report.MonthlySummary(payloads)
	return s.finish(ctx, "monthly", start, end, markdown, payloads)
}

func (s *reportService) finish(ctx context.Context, reportType string, start, end domain.Date, markdown string, payloads []domain.DailyPayload) (*Report, error) {
	html, err := report.RenderHTML(reportType, markdown, payloads)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Type:     reportType,
		Start:    start,
		End:      end,
		Markdown: markdown,
		HTML:     html,
		Payloads: payloads,
	}

	if s.objects != nil {
		s.archiveHTML(ctx, r)
	}
	return r, nil
}

// archiveHTML best-effort uploads the rendered report; failures only log.
func (s *reportService) archiveHTML(ctx context.Context, r *Report) {
	key := fmt.Sprintf("reports/%s/%s.html", r.Type, r.End)
	_, err := s.objects.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.S3.Bucket,
		Key:         key,
		Body:        strings.NewReader(r.HTML),
		ContentType: "text/html",
		Size:        int64(len(r.HTML)),
	})
	if err != nil {
		log.Printf("reportService: archiving %s report: %v", r.Type, err)
	}
}
