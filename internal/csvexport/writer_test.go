package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunadex/internal/domain"
)

func csvDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 13)
	assert.Equal(t, "Date", row[0])
	assert.Equal(t, "AWB", row[1])
	assert.Equal(t, "Source Emails", row[12])
}

func TestWritePayload(t *testing.T) {
	payload := &domain.DailyPayload{
		Date:         csvDate(t, "2025-03-10"),
		RunTimestamp: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
		Shipments: []domain.Shipment{
			{
				AWB:              domain.AWB("12345678901"),
				Date:             csvDate(t, "2025-03-10"),
				Supplier:         "victor",
				FreightForwarder: "Oceanic Freight",
				SourceEmailIDs:   []string{"m1", "m2"},
				Lines: []domain.ShipmentLine{
					{
						CustomerName: "mark",
						Company:      "Mark's Seafood",
						Species:      "Swordfish",
						Boxes:        intPtr(10),
						WeightLbs:    floatPtr(1200.5),
						SizeCategory: "pups",
					},
					{
						CustomerName: "manny",
						Species:      "Yellowfin Tuna",
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WritePayload(payload))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[1]
	assert.Equal(t, "2025-03-10", first[0])
	assert.Equal(t, "12345678901", first[1])
	assert.Equal(t, "victor", first[2])
	assert.Equal(t, "Oceanic Freight", first[3])
	assert.Equal(t, "mark", first[4])
	assert.Equal(t, "Mark's Seafood", first[5])
	assert.Equal(t, "Swordfish", first[6])
	assert.Equal(t, "10", first[7])
	assert.Equal(t, "1200.5", first[8])
	assert.Equal(t, "pups", first[9])
	assert.Equal(t, "m1, m2", first[12])

	// Absent counts and weights stay blank.
	second := rows[2]
	assert.Equal(t, "manny", second[4])
	assert.Equal(t, "", second[7])
	assert.Equal(t, "", second[8])
}

func TestWritePayload_Empty(t *testing.T) {
	payload := &domain.DailyPayload{Date: csvDate(t, "2025-03-10")}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WritePayload(payload))
	w.Flush()

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-10", "2025-03-10"},
		{"daily report!", "daily_report"},
		{"a  b//c", "a_b_c"},
		{"__trim__", "trim"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), tt.in)
	}
}

func TestBuildFilename(t *testing.T) {
	assert.Equal(t, "shipments_2025-03-10.csv", BuildFilename(csvDate(t, "2025-03-10")))
}
