package textscan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tunadex/internal/vocab"
)

func newScanner() *Scanner {
	return NewScanner(vocab.Default())
}

func TestAWBs(t *testing.T) {
	s := newScanner()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "AWB: 12345678901", []string{"12345678901"}},
		{"hyphenated", "AWB 123-4567-8901", []string{"12345678901"}},
		{"spaced", "waybill 123 4567 8901 attached", []string{"12345678901"}},
		{"multiple with duplicate", "12345678901 then 123-4567-8901 again", []string{"12345678901", "12345678901"}},
		{"none", "no waybill in this email", []string{}},
		{"too few digits", "order 12345 confirmed", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.AWBs(tt.text))
		})
	}
}

func TestCustomerMentions_FirstContactPerCompanyWins(t *testing.T) {
	s := newScanner()

	// Mike and Bob both map to BST Seafood; only the first (mike) is kept.
	got := s.CustomerMentions("Mike wants 10 boxes, Bob wants 5, and Manny takes the rest")

	assert.Equal(t, []CustomerMention{
		{Contact: "mike", Company: "BST Seafood"},
		{Contact: "manny", Company: "Stavis"},
	}, got)
}

func TestCustomerMentions_CaseInsensitive(t *testing.T) {
	s := newScanner()

	got := s.CustomerMentions("CHADE confirmed the swordfish order")

	assert.Equal(t, []CustomerMention{{Contact: "chade", Company: "Lockwood-Winant"}}, got)
}

func TestSpeciesMentions_VocabularyOrderOncePerSpecies(t *testing.T) {
	s := newScanner()

	got := s.SpeciesMentions("Mahi Mahi and swordfish, more SWORDFISH, plus opah")

	// Vocabulary order, each species at most once.
	assert.Equal(t, []string{"swordfish", "opah", "mahi mahi"}, got)
}

func TestWeights(t *testing.T) {
	s := newScanner()

	tests := []struct {
		name string
		text string
		want []float64
	}{
		{"pounds", "450 lbs of swordfish", []float64{450}},
		{"hash mark", "450# total", []float64{450}},
		{"decimal", "200.5 pounds", []float64{200.5}},
		{"thousands separator", "1,250 lbs", []float64{1250}},
		{"kilograms converted", "100 kg", []float64{220.5}},
		{"pounds before kilos", "50 kg and 300 lbs", []float64{300, 110.25}},
		{"none", "no weights here", []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Weights(tt.text)
			assert.InDeltaSlice(t, tt.want, got, 0.0001)
		})
	}
}

func TestBoxCounts(t *testing.T) {
	s := newScanner()

	tests := []struct {
		name string
		text string
		want []int
	}{
		{"suffix boxes", "12 boxes of yellowtail", []int{12}},
		{"suffix bxs", "8 bxs", []int{8}},
		{"prefix colon", "boxes: 15", []int{15}},
		{"prefix equals", "box=4", []int{4}},
		{"mixed forms", "10 boxes plus boxes: 5", []int{10, 5}},
		{"none", "a boxer, not a box count", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.BoxCounts(tt.text))
		})
	}
}

func TestFirstPass(t *testing.T) {
	s := newScanner()

	got := s.FirstPass("Mark: 10 boxes swordfish, 450 lbs, AWB 123-4567-8901")

	assert.Equal(t, []string{"12345678901"}, got.AWBs)
	assert.Equal(t, []CustomerMention{{Contact: "mark", Company: "Mark's Seafood"}}, got.Customers)
	assert.Equal(t, []string{"swordfish"}, got.Species)
	assert.Equal(t, []float64{450}, got.Weights)
	assert.Equal(t, []int{10}, got.BoxCounts)
}
