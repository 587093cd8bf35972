package xlsxexport

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tunadex/internal/domain"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func testPayload(t *testing.T) *domain.DailyPayload {
	t.Helper()
	date, err := domain.ParseDate("2025-03-10")
	require.NoError(t, err)

	p := &domain.DailyPayload{
		Date:            date,
		RunTimestamp:    time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
		EmailsProcessed: 2,
		Shipments: []domain.Shipment{
			{
				AWB:      domain.AWB("12345678901"),
				Date:     date,
				Supplier: "Victor",
				Lines: []domain.ShipmentLine{
					{CustomerName: "Mark", Company: "Mark's Seafood", Species: "Swordfish", Boxes: intPtr(10), WeightLbs: floatPtr(450)},
					{CustomerName: "Vinny", Species: "Salmon"},
				},
			},
		},
		Anomalies: []domain.Anomaly{
			{
				Type:          domain.AnomalyWeightOutlier,
				Severity:      domain.SeverityWarning,
				Description:   "Swordfish weight high",
				RelatedAWB:    "12345678901",
				RelatedEmails: []string{"m1", "m2"},
			},
		},
	}
	p.ComputeTotals()
	return p
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testPayload(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.ElementsMatch(t, []string{sheetShipments, sheetSpecies, sheetCustomers, sheetAnomalies}, f.GetSheetList())

	rows, err := f.GetRows(sheetShipments)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "AWB", rows[0][0])
	assert.Equal(t, "12345678901", rows[1][0])
	assert.Equal(t, "Mark", rows[1][4])
	assert.Equal(t, "10", rows[1][7])
	// Unknown boxes stay blank, not zero.
	assert.Equal(t, "Vinny", rows[2][4])
	if len(rows[2]) > 7 {
		assert.Equal(t, "", rows[2][7])
	}

	speciesRows, err := f.GetRows(sheetSpecies)
	require.NoError(t, err)
	require.Len(t, speciesRows, 3)
	assert.Equal(t, "Swordfish", speciesRows[1][0])
	assert.Equal(t, "Salmon", speciesRows[2][0])

	customerRows, err := f.GetRows(sheetCustomers)
	require.NoError(t, err)
	require.Len(t, customerRows, 3)
	assert.Equal(t, "Mark's Seafood", customerRows[1][0])

	anomalyRows, err := f.GetRows(sheetAnomalies)
	require.NoError(t, err)
	require.Len(t, anomalyRows, 2)
	assert.Equal(t, "WARNING", anomalyRows[1][0])
	assert.Equal(t, "WEIGHT_OUTLIER", anomalyRows[1][1])
	assert.Equal(t, "m1, m2", anomalyRows[1][4])
}

func TestBuildEmptyPayload(t *testing.T) {
	date, err := domain.ParseDate("2025-03-10")
	require.NoError(t, err)
	p := &domain.DailyPayload{Date: date}
	p.ComputeTotals()

	f, err := Build(p)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetShipments)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
