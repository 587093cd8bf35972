package report

import (
	"fmt"
	"sort"
	"strings"

	"tunadex/internal/domain"
)

// WeeklySummary renders a trend report across a week of daily payloads.
// Days without data are simply absent from the input.
func WeeklySummary(payloads []domain.DailyPayload) string {
	if len(payloads) == 0 {
		return "# Weekly Report\n\nNo data available for this period.\n"
	}

	sorted := make([]domain.DailyPayload, len(payloads))
	copy(sorted, payloads)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	start := sorted[0].Date
	end := sorted[len(sorted)-1].Date

	totalWeight := 0.0
	totalBoxes := 0
	totalShipments := 0
	totalAnomalies := 0
	for i := range sorted {
		totalWeight += sorted[i].Totals.TotalWeightLbs
		totalBoxes += sorted[i].Totals.TotalBoxes
		totalShipments += len(sorted[i].Shipments)
		totalAnomalies += len(sorted[i].Anomalies)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# TunaDex Weekly Report - %s to %s\n\n", start, end)

	b.WriteString("## Week Overview\n")
	fmt.Fprintf(&b, "- Days with data: %d\n", len(sorted))
	fmt.Fprintf(&b, "- Total shipments: %d\n", totalShipments)
	fmt.Fprintf(&b, "- Total boxes: %d\n", totalBoxes)
	fmt.Fprintf(&b, "- Total weight: %s lbs\n", commaF1(totalWeight))
	fmt.Fprintf(&b, "- Avg daily weight: %s lbs\n", commaF1(totalWeight/float64(len(sorted))))
	fmt.Fprintf(&b, "- Total anomalies: %d\n\n", totalAnomalies)

	b.WriteString("## Daily Volume Trend\n")
	b.WriteString("| Date | Boxes | Weight (lbs) | Shipments |\n")
	b.WriteString("|------|-------|-------------|-----------|\n")
	for i := range sorted {
		p := &sorted[i]
		fmt.Fprintf(&b, "| %s | %d | %s | %d |\n",
			p.Date, p.Totals.TotalBoxes, commaF1(p.Totals.TotalWeightLbs), len(p.Shipments))
	}
	b.WriteString("\n")

	speciesAgg := make(map[string]domain.SpeciesTotal)
	for i := range sorted {
		for species, total := range sorted[i].Totals.SpeciesBreakdown {
			agg := speciesAgg[species]
			agg.Boxes += total.Boxes
			agg.WeightLbs += total.WeightLbs
			speciesAgg[species] = agg
		}
	}

	b.WriteString("## Species Distribution\n")
	b.WriteString("| Species | Boxes | Weight (lbs) | % of Total |\n")
	b.WriteString("|---------|-------|-------------|------------|\n")
	for _, species := range sortedSpeciesKeys(speciesAgg) {
		agg := speciesAgg[species]
		pct := 0.0
		if totalWeight > 0 {
			pct = agg.WeightLbs / totalWeight * 100
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %.1f%% |\n", species, agg.Boxes, commaF1(agg.WeightLbs), pct)
	}
	b.WriteString("\n")

	type customerWeek struct {
		boxes  int
		weight float64
		days   map[domain.Date]bool
	}
	customerAgg := make(map[string]*customerWeek)
	for i := range sorted {
		for customer, total := range sorted[i].Totals.CustomerBreakdown {
			agg, ok := customerAgg[customer]
			if !ok {
				agg = &customerWeek{days: make(map[domain.Date]bool)}
				customerAgg[customer] = agg
			}
			agg.boxes += total.Boxes
			agg.weight += total.WeightLbs
			agg.days[sorted[i].Date] = true
		}
	}

	customerKeys := make([]string, 0, len(customerAgg))
	for k := range customerAgg {
		customerKeys = append(customerKeys, k)
	}
	sort.Slice(customerKeys, func(i, j int) bool {
		wi, wj := customerAgg[customerKeys[i]].weight, customerAgg[customerKeys[j]].weight
		if wi != wj {
			return wi > wj
		}
		return customerKeys[i] < customerKeys[j]
	})

	b.WriteString("## Customer Activity\n")
	b.WriteString("| Customer | Boxes | Weight (lbs) | Days Active |\n")
	b.WriteString("|----------|-------|-------------|-------------|\n")
	for _, customer := range customerKeys {
		agg := customerAgg[customer]
		fmt.Fprintf(&b, "| %s | %d | %s | %d |\n", customer, agg.boxes, commaF1(agg.weight), len(agg.days))
	}
	b.WriteString("\n")

	writeSwordfishSection(&b, sorted)

	return b.String()
}

// writeSwordfishSection reports average fish size per customer for
// swordfish lines, the one species bought by size.
func writeSwordfishSection(b *strings.Builder, payloads []domain.DailyPayload) {
	b.WriteString("## Average Swordfish Size by Customer\n")

	sizes := make(map[string][]float64)
	for i := range payloads {
		for j := range payloads[i].Shipments {
			shipment := &payloads[i].Shipments[j]
			for k := range shipment.Lines {
				line := &shipment.Lines[k]
				if !strings.Contains(strings.ToLower(line.Species), "sword") {
					continue
				}
				if line.WeightLbs == nil || line.Boxes == nil || *line.Boxes == 0 {
					continue
				}
				sizes[line.CustomerKey()] = append(sizes[line.CustomerKey()], *line.WeightLbs/float64(*line.Boxes))
			}
		}
	}

	if len(sizes) == 0 {
		b.WriteString("No swordfish data available this week.\n\n")
		return
	}

	customers := make([]string, 0, len(sizes))
	for k := range sizes {
		customers = append(customers, k)
	}
	sort.Strings(customers)

	b.WriteString("| Customer | Avg Size (lbs/box) | Shipments |\n")
	b.WriteString("|----------|-------------------|-----------|\n")
	for _, customer := range customers {
		sum := 0.0
		for _, s := range sizes[customer] {
			sum += s
		}
		fmt.Fprintf(b, "| %s | %s | %d |\n", customer, commaF1(sum/float64(len(sizes[customer]))), len(sizes[customer]))
	}
	b.WriteString("\n")
}
