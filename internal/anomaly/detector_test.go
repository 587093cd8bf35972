package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunadex/internal/domain"
	"tunadex/internal/vocab"
)

func newDetector() *Detector {
	return NewDetector(vocab.Default())
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func shipment(awb string, emailIDs []string, lines ...domain.ShipmentLine) domain.Shipment {
	return domain.Shipment{
		AWB:            domain.AWB(awb),
		Date:           domain.NewDate(2025, time.March, 10),
		Supplier:       "Victor",
		Lines:          lines,
		SourceEmailIDs: emailIDs,
	}
}

func line(customer, species string, weight float64) domain.ShipmentLine {
	return domain.ShipmentLine{
		CustomerName: customer,
		Species:      species,
		Boxes:        intPtr(5),
		WeightLbs:    floatPtr(weight),
	}
}

func TestCheckDoubleCounts_NoRepeatedAWB(t *testing.T) {
	d := newDetector()

	shipments := []domain.Shipment{
		shipment("12345678901", []string{"m1"}, line("Mark", "Swordfish", 200)),
		shipment("98765432109", []string{"m2"}, line("Bryan", "Opah", 100)),
	}

	assert.Empty(t, d.CheckDoubleCounts(shipments))
}

func TestCheckDoubleCounts_DuplicateLines(t *testing.T) {
	d := newDetector()

	shipments := []domain.Shipment{
		shipment("12345678901", []string{"m1"}, line("Mark", "Swordfish", 200)),
		shipment("12345678901", []string{"m2"}, line("MARK", "swordfish", 200)),
	}

	got := d.CheckDoubleCounts(shipments)

	require.Len(t, got, 1)
	assert.Equal(t, domain.AnomalyDoubleCount, got[0].Type)
	assert.Equal(t, domain.SeverityError, got[0].Severity)
	assert.Contains(t, got[0].Description, "mark/swordfish (x2)")
	assert.Equal(t, "12345678901", got[0].RelatedAWB)
	assert.Equal(t, []string{"m1", "m2"}, got[0].RelatedEmails)
}

func TestCheckDoubleCounts_SplitShipment(t *testing.T) {
	d := newDetector()

	// Same AWB across two emails but disjoint line items: a split shipment,
	// not a double count.
	shipments := []domain.Shipment{
		shipment("12345678901", []string{"m1"}, line("Mark", "Swordfish", 200)),
		shipment("12345678901", []string{"m2"}, line("Bryan", "Opah", 100)),
	}

	got := d.CheckDoubleCounts(shipments)

	require.Len(t, got, 1)
	assert.Equal(t, domain.AnomalyDoubleCount, got[0].Type)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)
	assert.Contains(t, got[0].Description, "split shipment")
	assert.Equal(t, []string{"m1", "m2"}, got[0].RelatedEmails)
}

func TestCheckDoubleCounts_MissingAWBExcluded(t *testing.T) {
	d := newDetector()

	shipments := []domain.Shipment{
		shipment("MISSING", []string{"m1"}, line("Mark", "Swordfish", 200)),
		shipment("MISSING", []string{"m2"}, line("Mark", "Swordfish", 200)),
	}

	assert.Empty(t, d.CheckDoubleCounts(shipments))
}

func TestCheckMissingPaperwork(t *testing.T) {
	d := newDetector()

	emails := []domain.EmailDetail{
		{MessageID: "m1", Subject: "Todays fish", BodyText: "AWB 123-4567-8901 and also 999-8888-7777 coming"},
	}
	shipments := []domain.Shipment{
		shipment("12345678901", []string{"m1"}, line("Mark", "Swordfish", 200)),
	}

	got := d.CheckMissingPaperwork(emails, shipments)

	require.Len(t, got, 1)
	assert.Equal(t, domain.AnomalyMissingPaperwork, got[0].Type)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)
	assert.Equal(t, "99988887777", got[0].RelatedAWB)
	assert.Equal(t, []string{"m1"}, got[0].RelatedEmails)
}

func TestCheckMissingPaperwork_RepeatedMentionsNotSuppressed(t *testing.T) {
	d := newDetector()

	emails := []domain.EmailDetail{
		{MessageID: "m1", Subject: "999-8888-7777", BodyText: "Confirming 999-8888-7777 shipped"},
	}

	got := d.CheckMissingPaperwork(emails, nil)

	// Body mention and subject mention each produce their own anomaly.
	assert.Len(t, got, 2)
}

func TestCheckMissingPaperwork_SubjectScanned(t *testing.T) {
	d := newDetector()

	emails := []domain.EmailDetail{
		{MessageID: "m1", Subject: "Re: AWB 555-1234-5678", BodyText: "see subject"},
	}

	got := d.CheckMissingPaperwork(emails, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "55512345678", got[0].RelatedAWB)
}

func TestCheckAWBConsistency(t *testing.T) {
	d := newDetector()

	tests := []struct {
		name         string
		awb          string
		wantType     domain.AnomalyType
		wantSeverity domain.Severity
		wantNone     bool
	}{
		{name: "missing", awb: "MISSING", wantType: domain.AnomalyMissingAWB, wantSeverity: domain.SeverityError},
		{name: "too short", awb: "123", wantType: domain.AnomalyAWBMismatch, wantSeverity: domain.SeverityWarning},
		{name: "non numeric", awb: "123456789AB", wantType: domain.AnomalyAWBMismatch, wantSeverity: domain.SeverityWarning},
		{name: "standard", awb: "12345678901", wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shipments := []domain.Shipment{shipment(tt.awb, []string{"m1"}, line("Mark", "Swordfish", 200))}
			got := d.CheckAWBConsistency(shipments)

			if tt.wantNone {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantType, got[0].Type)
			assert.Equal(t, tt.wantSeverity, got[0].Severity)
			assert.Equal(t, []string{"m1"}, got[0].RelatedEmails)
		})
	}
}

func TestCheckWeightOutliers(t *testing.T) {
	d := newDetector()

	tests := []struct {
		name     string
		line     domain.ShipmentLine
		wantHits int
	}{
		{"above range", line("Mark", "Swordfish", 5000), 1},
		{"below range", line("Mark", "Swordfish", 10), 1},
		{"inside range", line("Mark", "Swordfish", 450), 0},
		{"boundary min", line("Mark", "Swordfish", 40), 0},
		{"boundary max", line("Mark", "Swordfish", 500), 0},
		{"unknown species skipped", line("Mark", "Wahoo", 99999), 0},
		{"no weight skipped", domain.ShipmentLine{CustomerName: "Mark", Species: "Swordfish"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shipments := []domain.Shipment{shipment("12345678901", []string{"m1"}, tt.line)}
			got := d.CheckWeightOutliers(shipments)

			assert.Len(t, got, tt.wantHits)
			if tt.wantHits == 1 {
				assert.Equal(t, domain.AnomalyWeightOutlier, got[0].Type)
				assert.Equal(t, domain.SeverityWarning, got[0].Severity)
				assert.Contains(t, got[0].Description, "Swordfish")
				assert.Contains(t, got[0].Description, "40-500")
			}
		})
	}
}

func TestCheckWeightOutliers_CaseInsensitiveSpeciesLookup(t *testing.T) {
	d := newDetector()

	shipments := []domain.Shipment{
		shipment("12345678901", []string{"m1"}, line("Mark", "SWORDFISH", 5000)),
	}

	assert.Len(t, d.CheckWeightOutliers(shipments), 1)
}

func TestRunAllChecks_CleanInput(t *testing.T) {
	d := newDetector()

	emails := []domain.EmailDetail{
		{MessageID: "m1", Subject: "shipment", BodyText: "AWB 123-4567-8901, 10 boxes swordfish for Mark"},
	}
	shipments := []domain.Shipment{
		shipment("12345678901", []string{"m1"}, line("Mark", "Swordfish", 200)),
	}

	got := d.RunAllChecks(emails, shipments)

	for _, a := range got {
		assert.NotEqual(t, domain.SeverityError, a.Severity)
	}
	assert.Empty(t, got)
}

func TestRunAllChecks_Order(t *testing.T) {
	d := newDetector()

	emails := []domain.EmailDetail{
		{MessageID: "m3", Subject: "missing", BodyText: "AWB 999-8888-7777"},
	}
	shipments := []domain.Shipment{
		shipment("12345678901", []string{"m1"}, line("Mark", "Swordfish", 200)),
		shipment("12345678901", []string{"m2"}, line("Mark", "Swordfish", 200)),
		shipment("MISSING", []string{"m4"}, line("Bryan", "Swordfish", 5000)),
	}

	got := d.RunAllChecks(emails, shipments)

	require.Len(t, got, 4)
	assert.Equal(t, domain.AnomalyDoubleCount, got[0].Type)
	assert.Equal(t, domain.AnomalyMissingPaperwork, got[1].Type)
	assert.Equal(t, domain.AnomalyMissingAWB, got[2].Type)
	assert.Equal(t, domain.AnomalyWeightOutlier, got[3].Type)
}

func TestRunAllChecks_EmptyInput(t *testing.T) {
	d := newDetector()

	assert.Empty(t, d.RunAllChecks(nil, nil))
}
