package domain

import (
	"time"
)

// AttachmentMeta describes a single email attachment.
type AttachmentMeta struct {
	AttachmentID   string         `json:"attachment_id"`
	Filename       string         `json:"filename"`
	MimeType       string         `json:"mime_type"`
	SizeBytes      int64          `json:"size_bytes"`
	AttachmentType AttachmentType `json:"attachment_type"`
	StorageURL     string         `json:"storage_url,omitempty"`
}

// EmailMessage is a lightweight email reference from mailbox search results.
type EmailMessage struct {
	MessageID string     `json:"message_id"`
	ThreadID  string     `json:"thread_id"`
	Subject   string     `json:"subject"`
	Sender    string     `json:"sender"`
	Date      *time.Time `json:"date,omitempty"`
	Snippet   string     `json:"snippet,omitempty"`
}

// EmailDetail is the full email content after fetching message detail.
type EmailDetail struct {
	MessageID   string           `json:"message_id"`
	ThreadID    string           `json:"thread_id"`
	Subject     string           `json:"subject"`
	Sender      string           `json:"sender"`
	Date        *time.Time       `json:"date,omitempty"`
	BodyText    string           `json:"body_text"`
	BodyHTML    string           `json:"body_html,omitempty"`
	Attachments []AttachmentMeta `json:"attachments,omitempty"`
}

// ShipmentLine is a single line item within a shipment: one species going to
// one customer. Boxes and WeightLbs are nil when unknown; the nil/zero
// distinction is preserved everywhere outside the totals fold.
type ShipmentLine struct {
	CustomerName string   `json:"customer_name"`
	Company      string   `json:"company,omitempty"`
	Species      string   `json:"species"`
	Boxes        *int     `json:"boxes"`
	WeightLbs    *float64 `json:"weight_lbs"`
	SizeCategory string   `json:"size_category,omitempty"`
	CountPerBox  *int     `json:"count_per_box,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// CustomerKey returns the aggregation key for the line: the company when
// present, otherwise the customer name.
func (l *ShipmentLine) CustomerKey() string {
	if l.Company != "" {
		return l.Company
	}
	return l.CustomerName
}

// Validate checks the line's construction-time invariants.
func (l *ShipmentLine) Validate() error {
	if l.CustomerName == "" {
		return ErrMissingCustomer
	}
	if l.Species == "" {
		return ErrMissingSpecies
	}
	if l.Boxes != nil && *l.Boxes < 0 {
		return ErrNegativeBoxes
	}
	if l.WeightLbs != nil && *l.WeightLbs < 0 {
		return ErrNegativeWeight
	}
	return nil
}

// Shipment is a shipment identified by its AWB. Shipments are created once
// per extraction batch and never mutated afterwards.
type Shipment struct {
	AWB              AWB            `json:"awb"`
	Date             Date           `json:"date"`
	Supplier         string         `json:"supplier"`
	FreightForwarder string         `json:"freight_forwarder,omitempty"`
	Lines            []ShipmentLine `json:"lines"`
	SourceEmailIDs   []string       `json:"source_email_ids"`
}

// Validate checks the shipment and all of its lines.
func (s *Shipment) Validate() error {
	if s.AWB == "" {
		return ErrEmptyAWB
	}
	for i := range s.Lines {
		if err := s.Lines[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Anomaly is a typed, severity-ranked data-quality finding. Anomalies are
// immutable once created and collected into a flat list without
// cross-check deduplication.
type Anomaly struct {
	Type          AnomalyType `json:"anomaly_type"`
	Severity      Severity    `json:"severity"`
	Description   string      `json:"description"`
	RelatedAWB    string      `json:"related_awb,omitempty"`
	RelatedEmails []string    `json:"related_emails,omitempty"`
}

// DailyPayload is the complete output of one processing run for a calendar
// date: the shipments, the detected anomalies, and the computed totals. A
// later run for the same date replaces the whole payload.
type DailyPayload struct {
	Date            Date           `json:"date"`
	RunTimestamp    time.Time      `json:"run_timestamp"`
	EmailsProcessed int            `json:"emails_processed"`
	Shipments       []Shipment     `json:"shipments"`
	Anomalies       []Anomaly      `json:"anomalies"`
	Totals          ShipmentTotals `json:"totals"`
}

// ComputeTotals recalculates the payload's totals from its shipment lines.
func (p *DailyPayload) ComputeTotals() {
	p.Totals = ComputeTotals(p.Shipments)
}

// CountBySeverity returns the number of anomalies with the given severity.
func (p *DailyPayload) CountBySeverity(sev Severity) int {
	n := 0
	for i := range p.Anomalies {
		if p.Anomalies[i].Severity == sev {
			n++
		}
	}
	return n
}
