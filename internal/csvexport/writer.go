// Package csvexport flattens a daily payload into a spreadsheet-friendly
// CSV, one row per shipment line.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"tunadex/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Date",
	"AWB",
	"Supplier",
	"Freight Forwarder",
	"Customer",
	"Company",
	"Species",
	"Boxes",
	"Weight (lbs)",
	"Size Category",
	"Count Per Box",
	"Notes",
	"Source Emails",
}

// Writer wraps csv.Writer for exporting payloads as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WritePayload converts every shipment line in the payload to a CSV row and
// writes them. Absent box counts and weights become empty cells, not zeros.
func (w *Writer) WritePayload(payload *domain.DailyPayload) error {
	for i := range payload.Shipments {
		shipment := &payload.Shipments[i]
		for j := range shipment.Lines {
			row := lineToRow(shipment, &shipment.Lines[j])
			if err := w.csv.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func lineToRow(shipment *domain.Shipment, line *domain.ShipmentLine) []string {
	row := make([]string, len(columns))
	row[0] = shipment.Date.String()
	row[1] = string(shipment.AWB)
	row[2] = shipment.Supplier
	row[3] = shipment.FreightForwarder
	row[4] = line.CustomerName
	row[5] = line.Company
	row[6] = line.Species
	row[7] = formatInt(line.Boxes)
	row[8] = formatWeight(line.WeightLbs)
	row[9] = line.SizeCategory
	row[10] = formatInt(line.CountPerBox)
	row[11] = line.Notes
	row[12] = strings.Join(shipment.SourceEmailIDs, ", ")
	return row
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatWeight(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: shipments_{YYYY-MM-DD}.csv
func BuildFilename(date domain.Date) string {
	return fmt.Sprintf("shipments_%s.csv", SanitizeFilename(date.String()))
}
