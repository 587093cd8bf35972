// Package textscan is the deterministic regex first pass over raw message
// text. It produces low-confidence candidate signals (AWBs, customer and
// species mentions, weights, box counts) used to seed or sanity-check the
// LLM extraction. No external calls, no error paths: absence of matches
// yields empty slices.
package textscan

import (
	"regexp"
	"strconv"
	"strings"

	"tunadex/internal/vocab"
)

const kgToLbs = 2.205

var (
	weightLbsRe = regexp.MustCompile(`(?i)([\d,]+\.?\d*)\s*(?:lbs?|pounds?|#)`)
	weightKgRe  = regexp.MustCompile(`(?i)([\d,]+\.?\d*)\s*(?:kg|kilos?|kilograms?)`)
	boxSuffixRe = regexp.MustCompile(`(?i)(\d+)\s*(?:boxes|bxs|box)\b`)
	boxPrefixRe = regexp.MustCompile(`(?i)(?:boxes|bxs|box)\s*[:=]\s*(\d+)`)
	sepRe       = regexp.MustCompile(`[-\s]`)
)

// CustomerMention pairs a matched contact name with their company.
type CustomerMention struct {
	Contact string `json:"contact"`
	Company string `json:"company"`
}

// FirstPass bundles all five extractions over one text.
type FirstPass struct {
	AWBs      []string          `json:"awbs"`
	Customers []CustomerMention `json:"customers"`
	Species   []string          `json:"species"`
	Weights   []float64         `json:"weights"`
	BoxCounts []int             `json:"box_counts"`
}

// Scanner runs the regex first pass using injected vocabulary tables.
type Scanner struct {
	tables *vocab.Table
}

// NewScanner creates a Scanner over the given vocabulary tables.
func NewScanner(tables *vocab.Table) *Scanner {
	return &Scanner{tables: tables}
}

// AWBs finds all AWB-shaped substrings in document order, separators
// stripped. Duplicates are preserved.
func (s *Scanner) AWBs(text string) []string {
	matches := s.tables.AWBRegexp().FindAllStringSubmatch(text, -1)
	awbs := make([]string, 0, len(matches))
	for _, m := range matches {
		awbs = append(awbs, sepRe.ReplaceAllString(m[1], ""))
	}
	return awbs
}

// CustomerMentions finds known contact names mentioned in the text,
// case-insensitively. For each company only the first matching contact is
// reported, in vocabulary order.
func (s *Scanner) CustomerMentions(text string) []CustomerMention {
	lower := strings.ToLower(text)
	found := make([]CustomerMention, 0)
	seenCompanies := make(map[string]bool)

	for _, entry := range s.tables.Customers {
		if strings.Contains(lower, entry.Contact) && !seenCompanies[entry.Company] {
			found = append(found, CustomerMention{Contact: entry.Contact, Company: entry.Company})
			seenCompanies[entry.Company] = true
		}
	}
	return found
}

// SpeciesMentions finds known species mentioned in the text,
// case-insensitively. Each species is reported at most once, in vocabulary
// order.
func (s *Scanner) SpeciesMentions(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)

	for _, species := range s.tables.Species {
		if strings.Contains(lower, species) {
			found = append(found, species)
		}
	}
	return found
}

// Weights extracts weight values in pounds. Pound-unit matches ("450 lbs",
// "450#", "450 pounds") come first, then kilogram matches converted at
// 2.205 lbs/kg. Thousands separators are stripped before parsing.
func (s *Scanner) Weights(text string) []float64 {
	weights := make([]float64, 0)
	for _, m := range weightLbsRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			weights = append(weights, v)
		}
	}
	for _, m := range weightKgRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			weights = append(weights, v*kgToLbs)
		}
	}
	return weights
}

// BoxCounts extracts box counts in both suffix ("12 boxes", "12 bxs") and
// prefix ("boxes: 12", "box=12") forms.
func (s *Scanner) BoxCounts(text string) []int {
	counts := make([]int, 0)
	for _, re := range []*regexp.Regexp{boxSuffixRe, boxPrefixRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				counts = append(counts, n)
			}
		}
	}
	return counts
}

// FirstPass runs all five extractors over the text.
func (s *Scanner) FirstPass(text string) FirstPass {
	return FirstPass{
		AWBs:      s.AWBs(text),
		Customers: s.CustomerMentions(text),
		Species:   s.SpeciesMentions(text),
		Weights:   s.Weights(text),
		BoxCounts: s.BoxCounts(text),
	}
}
