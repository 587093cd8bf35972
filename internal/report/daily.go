package report

import (
	"fmt"
	"strings"

	"tunadex/internal/domain"
)

// DailySummary renders a single day's payload as a Markdown report.
func DailySummary(payload *domain.DailyPayload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# TunaDex Daily Report - %s\n", payload.Date)
	fmt.Fprintf(&b, "Run at: %s\n\n", payload.RunTimestamp.Format("2006-01-02 15:04:05"))

	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "- Emails processed: %d\n", payload.EmailsProcessed)
	fmt.Fprintf(&b, "- Shipments (unique AWBs): %d\n", len(payload.Shipments))
	fmt.Fprintf(&b, "- Total boxes: %d\n", payload.Totals.TotalBoxes)
	fmt.Fprintf(&b, "- Total weight: %s lbs\n\n", commaF1(payload.Totals.TotalWeightLbs))

	b.WriteString("## Shipments by AWB\n")
	for i := range payload.Shipments {
		writeShipmentSection(&b, &payload.Shipments[i])
	}

	b.WriteString("## Species Breakdown\n")
	for _, species := range sortedSpeciesKeys(payload.Totals.SpeciesBreakdown) {
		total := payload.Totals.SpeciesBreakdown[species]
		fmt.Fprintf(&b, "- %s: %d boxes / %s lbs\n", species, total.Boxes, commaF1(total.WeightLbs))
	}
	b.WriteString("\n")

	b.WriteString("## Customer Breakdown\n")
	for _, customer := range sortedCustomerKeys(payload.Totals.CustomerBreakdown) {
		total := payload.Totals.CustomerBreakdown[customer]
		fmt.Fprintf(&b, "- %s: %d boxes / %s lbs\n", customer, total.Boxes, commaF1(total.WeightLbs))
	}
	b.WriteString("\n")

	if len(payload.Anomalies) > 0 {
		b.WriteString("## Anomalies\n")
		for _, a := range payload.Anomalies {
			icon := "!"
			if a.Severity == domain.SeverityError {
				icon = "!!!"
			}
			fmt.Fprintf(&b, "- [%s] %s: %s\n", icon, a.Type, a.Description)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("## Anomalies\nNone detected.\n\n")
	}

	return b.String()
}

func writeShipmentSection(b *strings.Builder, shipment *domain.Shipment) {
	totalBoxes := 0
	totalWeight := 0.0
	customers := make(map[string]bool)
	for i := range shipment.Lines {
		line := &shipment.Lines[i]
		if line.Boxes != nil {
			totalBoxes += *line.Boxes
		}
		if line.WeightLbs != nil {
			totalWeight += *line.WeightLbs
		}
		customers[line.CustomerName] = true
	}

	fmt.Fprintf(b, "### AWB: %s (%s)\n", shipment.AWB, shipment.Supplier)
	fmt.Fprintf(b, "  Customers: %d\n", len(customers))
	fmt.Fprintf(b, "  Total: %d boxes / %s lbs\n", totalBoxes, commaF1(totalWeight))
	for i := range shipment.Lines {
		line := &shipment.Lines[i]
		weight := "N/A"
		if line.WeightLbs != nil {
			weight = commaF1(*line.WeightLbs) + " lbs"
		}
		boxes := "N/A"
		if line.Boxes != nil {
			boxes = fmt.Sprintf("%d boxes", *line.Boxes)
		}
		size := ""
		if line.SizeCategory != "" {
			size = fmt.Sprintf(" (%s)", line.SizeCategory)
		}
		fmt.Fprintf(b, "  - %s: %s%s - %s / %s\n", line.CustomerName, line.Species, size, boxes, weight)
	}
	b.WriteString("\n")
}
