package noop

import (
	"context"
	"log"

	"tunadex/internal/domain"
	"tunadex/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op AlertSender that logs digest summaries to
// stdout. Used when SES delivery is disabled.
func NewNoopSender() port.AlertSender {
	return &noopSender{}
}

func (s *noopSender) SendAnomalyDigest(_ context.Context, payload *domain.DailyPayload) error {
	errors := payload.CountBySeverity(domain.SeverityError)
	warnings := payload.CountBySeverity(domain.SeverityWarning)
	log.Printf("[NOOP EMAIL] Anomaly digest for %s: %d anomalies (%d errors, %d warnings)",
		payload.Date, len(payload.Anomalies), errors, warnings)
	for _, a := range payload.Anomalies {
		log.Printf("[NOOP EMAIL]   %s %s: %s", a.Severity, a.Type, a.Description)
	}
	return nil
}
