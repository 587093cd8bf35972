package extraction

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"tunadex/internal/domain"
	"tunadex/internal/port"
)

// wire types mirror the JSON contract in SystemPrompt.

type wireLine struct {
	CustomerName string   `json:"customer_name"`
	Company      *string  `json:"company"`
	Species      string   `json:"species"`
	Boxes        *int     `json:"boxes"`
	WeightLbs    *float64 `json:"weight_lbs"`
	SizeCategory *string  `json:"size_category"`
	CountPerBox  *int     `json:"count_per_box"`
	Notes        *string  `json:"notes"`
}

type wireShipment struct {
	AWB              string     `json:"awb"`
	Date             string     `json:"date"`
	Supplier         string     `json:"supplier"`
	FreightForwarder *string    `json:"freight_forwarder"`
	Lines            []wireLine `json:"lines"`
}

type wireAnomaly struct {
	AnomalyType   string   `json:"anomaly_type"`
	Severity      string   `json:"severity"`
	Description   string   `json:"description"`
	RelatedAWB    *string  `json:"related_awb"`
	RelatedEmails []string `json:"related_emails"`
}

type wireResult struct {
	Shipments []wireShipment `json:"shipments"`
	Anomalies []wireAnomaly  `json:"anomalies"`
}

// DecodeResult leniently decodes the model's JSON output into typed
// shipments and anomalies. Invalid JSON yields no shipments and a single
// ERROR-severity MISSING_DATA anomaly; individually malformed shipments or
// anomalies are skipped with a WARNING rather than failing the batch.
func DecodeResult(text string, emails []domain.EmailDetail) *port.ExtractOutput {
	out := &port.ExtractOutput{
		Shipments: make([]domain.Shipment, 0),
		Anomalies: make([]domain.Anomaly, 0),
	}

	var result wireResult
	if err := json.Unmarshal([]byte(StripFences(text)), &result); err != nil {
		log.Printf("extraction: model returned invalid JSON: %v", err)
		out.Anomalies = append(out.Anomalies, domain.Anomaly{
			Type:          domain.AnomalyMissingData,
			Severity:      domain.SeverityError,
			Description:   "AI extraction returned invalid JSON",
			RelatedEmails: relatedEmailIDs(emails),
		})
		return out
	}

	for _, ws := range result.Shipments {
		shipment, err := decodeShipment(ws, emails)
		if err != nil {
			log.Printf("extraction: skipping malformed shipment (awb=%q): %v", ws.AWB, err)
			out.Anomalies = append(out.Anomalies, domain.Anomaly{
				Type:        domain.AnomalyMissingData,
				Severity:    domain.SeverityWarning,
				Description: fmt.Sprintf("Failed to parse shipment data: %v", err),
			})
			continue
		}
		out.Shipments = append(out.Shipments, *shipment)
	}

	for _, wa := range result.Anomalies {
		anomaly, err := decodeAnomaly(wa)
		if err != nil {
			log.Printf("extraction: skipping malformed anomaly: %v", err)
			continue
		}
		out.Anomalies = append(out.Anomalies, *anomaly)
	}

	return out
}

func decodeShipment(ws wireShipment, emails []domain.EmailDetail) (*domain.Shipment, error) {
	date, err := domain.ParseDate(ws.Date)
	if err != nil {
		return nil, err
	}

	supplier := ws.Supplier
	if supplier == "" {
		supplier = "Unknown"
	}

	shipment := domain.Shipment{
		AWB:            domain.NormalizeAWB(ws.AWB),
		Date:           date,
		Supplier:       supplier,
		Lines:          make([]domain.ShipmentLine, 0, len(ws.Lines)),
		SourceEmailIDs: relatedEmailIDs(emails),
	}
	if ws.FreightForwarder != nil {
		shipment.FreightForwarder = *ws.FreightForwarder
	}

	for _, wl := range ws.Lines {
		line := domain.ShipmentLine{
			CustomerName: wl.CustomerName,
			Species:      wl.Species,
			Boxes:        wl.Boxes,
			WeightLbs:    wl.WeightLbs,
			CountPerBox:  wl.CountPerBox,
		}
		if wl.Company != nil {
			line.Company = *wl.Company
		}
		if wl.SizeCategory != nil {
			line.SizeCategory = *wl.SizeCategory
		}
		if wl.Notes != nil {
			line.Notes = *wl.Notes
		}
		if err := line.Validate(); err != nil {
			return nil, err
		}
		shipment.Lines = append(shipment.Lines, line)
	}

	return &shipment, nil
}

var validAnomalyTypes = map[domain.AnomalyType]bool{
	domain.AnomalyDoubleCount:      true,
	domain.AnomalyMissingPaperwork: true,
	domain.AnomalyAWBMismatch:      true,
	domain.AnomalyWeightOutlier:    true,
	domain.AnomalyMissingAWB:       true,
	domain.AnomalyMissingData:      true,
}

func decodeAnomaly(wa wireAnomaly) (*domain.Anomaly, error) {
	anomalyType := domain.AnomalyType(wa.AnomalyType)
	if !validAnomalyTypes[anomalyType] {
		return nil, fmt.Errorf("unknown anomaly type %q", wa.AnomalyType)
	}
	severity := domain.Severity(wa.Severity)
	if severity != domain.SeverityWarning && severity != domain.SeverityError {
		return nil, fmt.Errorf("unknown severity %q", wa.Severity)
	}

	anomaly := domain.Anomaly{
		Type:          anomalyType,
		Severity:      severity,
		Description:   wa.Description,
		RelatedEmails: wa.RelatedEmails,
	}
	if wa.RelatedAWB != nil {
		anomaly.RelatedAWB = *wa.RelatedAWB
	}
	return &anomaly, nil
}

// StripFences removes a surrounding markdown code fence, which some models
// emit despite the JSON response MIME type.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
