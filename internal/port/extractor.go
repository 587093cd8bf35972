package port

import (
	"context"

	"tunadex/internal/domain"
	"tunadex/internal/textscan"
)

// ExtractInput carries one batch of emails for structured extraction.
type ExtractInput struct {
	Emails          []domain.EmailDetail
	AttachmentTexts map[string]string // message id -> concatenated attachment text
	Hints           map[string]textscan.FirstPass
	TargetDate      domain.Date
	// ExistingShipments gives the extractor dedup context from earlier
	// batches of the same run; it must not re-extract them.
	ExistingShipments []domain.Shipment
}

// ExtractOutput is the extractor's structured result. Anomalies here are
// extraction-level findings (missing data, unreadable attachments), not
// detector output.
type ExtractOutput struct {
	Shipments []domain.Shipment
	Anomalies []domain.Anomaly
	ModelUsed string
}

// ShipmentExtractor abstracts LLM-based shipment extraction.
type ShipmentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
