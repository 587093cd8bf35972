// Package report renders daily, weekly, and monthly shipment summaries as
// Markdown, with an HTML wrapper for emailing and archiving.
package report

import (
	"fmt"
	"sort"
	"strings"

	"tunadex/internal/domain"
)

// commaF1 formats a float with thousands separators and one decimal place.
func commaF1(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// sortedByWeight returns map keys ordered by descending weight, with name
// as the tie-break so output is stable.
func sortedSpeciesKeys(breakdown map[string]domain.SpeciesTotal) []string {
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

func sortedCustomerKeys(breakdown map[string]domain.CustomerTotal) []string {
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
