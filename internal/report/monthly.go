package report

import (
	"fmt"
	"sort"
	"strings"

	"tunadex/internal/domain"
)

// MonthlySummary renders the deep-dive monthly report: weekly breakdown,
// customer rankings, species ratios, and a data quality section.
func MonthlySummary(payloads []domain.DailyPayload) string {
	if len(payloads) == 0 {
		return "# Monthly Report\n\nNo data available for this period.\n"
	}

	sorted := make([]domain.DailyPayload, len(payloads))
	copy(sorted, payloads)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	start := sorted[0].Date
	end := sorted[len(sorted)-1].Date
	activeDays := len(sorted)

	totalWeight := 0.0
	totalBoxes := 0
	totalShipments := 0
	for i := range sorted {
		totalWeight += sorted[i].Totals.TotalWeightLbs
		totalBoxes += sorted[i].Totals.TotalBoxes
		totalShipments += len(sorted[i].Shipments)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# TunaDex Monthly Report - %s\n", start.Time().Format("January 2006"))
	fmt.Fprintf(&b, "Period: %s to %s\n\n", start, end)

	b.WriteString("## Executive Summary\n")
	fmt.Fprintf(&b, "- Active shipping days: %d\n", activeDays)
	fmt.Fprintf(&b, "- Total shipments: %d\n", totalShipments)
	fmt.Fprintf(&b, "- Total volume: %d boxes / %s lbs\n", totalBoxes, commaF1(totalWeight))
	fmt.Fprintf(&b, "- Average daily volume: %s lbs\n", commaF1(totalWeight/float64(activeDays)))
	fmt.Fprintf(&b, "- Average daily shipments: %.1f\n\n", float64(totalShipments)/float64(activeDays))

	writeWeeklyBreakdown(&b, sorted)

	customerAgg := aggregateCustomers(sorted)
	writeTopCustomers(&b, customerAgg)

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
	b.WriteString("| Species | Weight (lbs) | % of Total | Boxes |\n")
	b.WriteString("|---------|-------------|------------|-------|\n")
	for _, species := range sortedSpeciesKeys(speciesAgg) {
		agg := speciesAgg[species]
		pct := 0.0
		if totalWeight > 0 {
			pct = agg.WeightLbs / totalWeight * 100
		}
		fmt.Fprintf(&b, "| %s | %s | %.1f%% | %d |\n", species, commaF1(agg.WeightLbs), pct, agg.Boxes)
	}
	b.WriteString("\n")

	writeLoyalty(&b, customerAgg, activeDays)

	b.WriteString("## Box-to-Weight Ratios (Avg lbs/box by Species)\n")
	b.WriteString("| Species | Total Boxes | Total Weight | Avg lbs/box |\n")
	b.WriteString("|---------|------------|-------------|-------------|\n")
	for _, species := range sortedSpeciesKeys(speciesAgg) {
		agg := speciesAgg[species]
		avg := 0.0
		if agg.Boxes > 0 {
			avg = agg.WeightLbs / float64(agg.Boxes)
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", species, agg.Boxes, commaF1(agg.WeightLbs), commaF1(avg))
	}
	b.WriteString("\n")

	totalAnomalies := 0
	errorCount := 0
	for i := range sorted {
		totalAnomalies += len(sorted[i].Anomalies)
		errorCount += sorted[i].CountBySeverity(domain.SeverityError)
	}

	b.WriteString("## Data Quality\n")
	fmt.Fprintf(&b, "- Total anomalies: %d\n", totalAnomalies)
	fmt.Fprintf(&b, "- Errors: %d\n", errorCount)
	fmt.Fprintf(&b, "- Warnings: %d\n\n", totalAnomalies-errorCount)

	return b.String()
}

func writeWeeklyBreakdown(b *strings.Builder, sorted []domain.DailyPayload) {
	type weekAgg struct {
		weight float64
		boxes  int
		days   int
	}
	weeks := make(map[int]*weekAgg)
	var weekOrder []int
	for i := range sorted {
		_, week := sorted[i].Date.Time().ISOWeek()
		agg, ok := weeks[week]
		if !ok {
			agg = &weekAgg{}
			weeks[week] = agg
			weekOrder = append(weekOrder, week)
		}
		agg.weight += sorted[i].Totals.TotalWeightLbs
		agg.boxes += sorted[i].Totals.TotalBoxes
		agg.days++
	}
	sort.Ints(weekOrder)

	b.WriteString("## Weekly Breakdown\n")
	b.WriteString("| Week | Days | Boxes | Weight (lbs) | Avg Daily (lbs) |\n")
	b.WriteString("|------|------|-------|-------------|-----------------|\n")
	for _, week := range weekOrder {
		agg := weeks[week]
		avg := 0.0
		if agg.days > 0 {
			avg = agg.weight / float64(agg.days)
		}
		fmt.Fprintf(b, "| W%d | %d | %d | %s | %s |\n", week, agg.days, agg.boxes, commaF1(agg.weight), commaF1(avg))
	}
	b.WriteString("\n")
}

type customerMonth struct {
	weight  float64
	boxes   int
	orders  int
	days    map[domain.Date]bool
	species []string
}

func aggregateCustomers(sorted []domain.DailyPayload) map[string]*customerMonth {
	agg := make(map[string]*customerMonth)
	for i := range sorted {
		for j := range sorted[i].Shipments {
			shipment := &sorted[i].Shipments[j]
			for k := range shipment.Lines {
				line := &shipment.Lines[k]
				name := line.CustomerKey()
				c, ok := agg[name]
				if !ok {
					c = &customerMonth{days: make(map[domain.Date]bool)}
					agg[name] = c
				}
				if line.WeightLbs != nil {
					c.weight += *line.WeightLbs
				}
				if line.Boxes != nil {
					c.boxes += *line.Boxes
				}
				c.orders++
				c.days[sorted[i].Date] = true
				if !containsString(c.species, line.Species) {
					c.species = append(c.species, line.Species)
				}
			}
		}
	}
	return agg
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func writeTopCustomers(b *strings.Builder, agg map[string]*customerMonth) {
	keys := make([]string, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		wi, wj := agg[keys[i]].weight, agg[keys[j]].weight
		if wi != wj {
			return wi > wj
		}
		return keys[i] < keys[j]
	})

	b.WriteString("## Top Customers (by Weight)\n")
	b.WriteString("| Rank | Customer | Weight (lbs) | Boxes | Orders | Days Active | Top Species |\n")
	b.WriteString("|------|----------|-------------|-------|--------|-------------|-------------|\n")
	for rank, customer := range keys {
		c := agg[customer]
		top := c.species
		if len(top) > 3 {
			top = top[:3]
		}
		fmt.Fprintf(b, "| %d | %s | %s | %d | %d | %d | %s |\n",
			rank+1, customer, commaF1(c.weight), c.boxes, c.orders, len(c.days), strings.Join(top, ", "))
	}
	b.WriteString("\n")
}

func writeLoyalty(b *strings.Builder, agg map[string]*customerMonth, activeDays int) {
	keys := make([]string, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := len(agg[keys[i]].days), len(agg[keys[j]].days)
		if di != dj {
			return di > dj
		}
		return keys[i] < keys[j]
	})

	b.WriteString("## Customer Loyalty\n")
	b.WriteString("| Customer | Days Active | Frequency (%) | Avg Order (lbs) |\n")
	b.WriteString("|----------|-------------|---------------|-----------------|\n")
	for _, customer := range keys {
		c := agg[customer]
		freq := float64(len(c.days)) / float64(activeDays) * 100
		avgOrder := 0.0
		if c.orders > 0 {
			avgOrder = c.weight / float64(c.orders)
		}
		fmt.Fprintf(b, "| %s | %d | %.0f%% | %s |\n", customer, len(c.days), freq, commaF1(avgOrder))
	}
	b.WriteString("\n")
}
