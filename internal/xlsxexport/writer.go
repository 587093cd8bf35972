// Package xlsxexport builds the daily shipment workbook: one sheet of
// shipment lines plus species, customer, and anomaly summary sheets.
package xlsxexport

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"tunadex/internal/domain"
)

const (
	sheetShipments = "Shipments"
	sheetSpecies   = "Species"
	sheetCustomers = "Customers"
	sheetAnomalies = "Anomalies"
)

var shipmentColumns = []interface{}{
	"AWB", "Date", "Supplier", "Freight Forwarder",
	"Customer", "Company", "Species", "Boxes", "Weight (lbs)",
	"Size Category", "Count/Box", "Notes",
}

// Build renders a daily payload into an in-memory workbook.
func Build(payload *domain.DailyPayload) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeShipmentsSheet(f, payload); err != nil {
		return nil, err
	}
	if err := writeSpeciesSheet(f, payload); err != nil {
		return nil, err
	}
	if err := writeCustomersSheet(f, payload); err != nil {
		return nil, err
	}
	if err := writeAnomaliesSheet(f, payload); err != nil {
		return nil, err
	}

	// The default sheet is replaced by Shipments.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("deleting default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(sheetShipments)
	if err != nil {
		return nil, fmt.Errorf("finding shipments sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	return f, nil
}

// Write renders the workbook for a payload and writes the xlsx bytes to w.
func Write(w io.Writer, payload *domain.DailyPayload) error {
	f, err := Build(payload)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeShipmentsSheet(f *excelize.File, payload *domain.DailyPayload) error {
	if _, err := f.NewSheet(sheetShipments); err != nil {
		return fmt.Errorf("creating shipments sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetShipments, "A1", &shipmentColumns); err != nil {
		return fmt.Errorf("writing shipments header: %w", err)
	}

	rowNum := 2
	for i := range payload.Shipments {
		shipment := &payload.Shipments[i]
		for j := range shipment.Lines {
			line := &shipment.Lines[j]
			row := []interface{}{
				shipment.AWB.String(),
				shipment.Date.String(),
				shipment.Supplier,
				shipment.FreightForwarder,
				line.CustomerName,
				line.Company,
				line.Species,
				cellInt(line.Boxes),
				cellFloat(line.WeightLbs),
				line.SizeCategory,
				cellInt(line.CountPerBox),
				line.Notes,
			}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(sheetShipments, cell, &row); err != nil {
				return fmt.Errorf("writing shipment row %d: %w", rowNum, err)
			}
			rowNum++
		}
	}
	return nil
}

func writeSpeciesSheet(f *excelize.File, payload *domain.DailyPayload) error {
	if _, err := f.NewSheet(sheetSpecies); err != nil {
		return fmt.Errorf("creating species sheet: %w", err)
	}
	header := []interface{}{"Species", "Boxes", "Weight (lbs)"}
	if err := f.SetSheetRow(sheetSpecies, "A1", &header); err != nil {
		return fmt.Errorf("writing species header: %w", err)
	}

	rowNum := 2
	for _, species := range sortedSpecies(payload.Totals.SpeciesBreakdown) {
		total := payload.Totals.SpeciesBreakdown[species]
		row := []interface{}{species, total.Boxes, total.WeightLbs}
		if err := f.SetSheetRow(sheetSpecies, fmt.Sprintf("A%d", rowNum), &row); err != nil {
			return fmt.Errorf("writing species row %d: %w", rowNum, err)
		}
		rowNum++
	}
	return nil
}

func writeCustomersSheet(f *excelize.File, payload *domain.DailyPayload) error {
	if _, err := f.NewSheet(sheetCustomers); err != nil {
		return fmt.Errorf("creating customers sheet: %w", err)
	}
	header := []interface{}{"Customer", "Boxes", "Weight (lbs)", "Orders"}
	if err := f.SetSheetRow(sheetCustomers, "A1", &header); err != nil {
		return fmt.Errorf("writing customers header: %w", err)
	}

	rowNum := 2
	for _, customer := range sortedCustomers(payload.Totals.CustomerBreakdown) {
		total := payload.Totals.CustomerBreakdown[customer]
		row := []interface{}{customer, total.Boxes, total.WeightLbs, total.OrderCount}
		if err := f.SetSheetRow(sheetCustomers, fmt.Sprintf("A%d", rowNum), &row); err != nil {
			return fmt.Errorf("writing customer row %d: %w", rowNum, err)
		}
		rowNum++
	}
	return nil
}

func writeAnomaliesSheet(f *excelize.File, payload *domain.DailyPayload) error {
	if _, err := f.NewSheet(sheetAnomalies); err != nil {
		return fmt.Errorf("creating anomalies sheet: %w", err)
	}
	header := []interface{}{"Severity", "Type", "Description", "AWB", "Related Emails"}
	if err := f.SetSheetRow(sheetAnomalies, "A1", &header); err != nil {
		return fmt.Errorf("writing anomalies header: %w", err)
	}

	for i, a := range payload.Anomalies {
		row := []interface{}{
			string(a.Severity),
			string(a.Type),
			a.Description,
			a.RelatedAWB,
			joinEmails(a.RelatedEmails),
		}
		if err := f.SetSheetRow(sheetAnomalies, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("writing anomaly row %d: %w", i+2, err)
		}
	}
	return nil
}

func sortedSpecies(breakdown map[string]domain.SpeciesTotal) []string {
	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		wi, wj := breakdown[keys[i]].WeightLbs, breakdown[keys[j]].WeightLbs
		if wi != wj {
			return wi > wj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func sortedCustomers(breakdown map[string]domain.CustomerTotal) []string {
	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		wi, wj := breakdown[keys[i]].WeightLbs, breakdown[keys[j]].WeightLbs
		if wi != wj {
			return wi > wj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// cellInt and cellFloat keep unknown values as blank cells instead of zeros.
func cellInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func cellFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func joinEmails(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += id
	}
	return out
}
