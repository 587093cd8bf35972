// Package vocab holds the process-wide lookup tables the pre-extractor and
// anomaly detector depend on: known customers, known species, per-species
// weight ranges, and the AWB pattern. Tables are configuration data with no
// runtime write path: load them once and inject them.
package vocab

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultAWBPattern matches 11-digit AWBs in fixed 3-4-4 grouping with
// optional hyphen or space separators. Group 1 captures the raw AWB.
const DefaultAWBPattern = `\b(\d{3}[-\s]?\d{4}[-\s]?\d{4})\b`

// CustomerEntry maps a contact first name to the company they buy for.
// Entry order is significant: mention scanning reports the first matching
// contact per company in table order.
type CustomerEntry struct {
	Contact string `yaml:"contact"`
	Company string `yaml:"company"`
}

// WeightRange is the typical per-box weight band for a species, in pounds.
type WeightRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Table is an immutable set of vocabulary tables.
type Table struct {
	Customers    []CustomerEntry        `yaml:"customers"`
	Species      []string               `yaml:"species"`
	WeightRanges map[string]WeightRange `yaml:"weight_ranges"`
	AWBPattern   string                 `yaml:"awb_pattern"`

	awbRe *regexp.Regexp
}

// Default returns the built-in vocabulary tables.
func Default() *Table {
	t := &Table{
		Customers: []CustomerEntry{
			{"mark", "Mark's Seafood"},
			{"chade", "Lockwood-Winant"},
			{"bryan", "Gosman's Fish Market"},
			{"richie", "Congressional"},
			{"amos", "Congressional"},
			{"joseph", "Samuels Seafood"},
			{"robby", "Great Eastern"},
			{"mike", "BST Seafood"},
			{"bob", "BST Seafood"},
			{"manny", "Stavis"},
			{"tom", "Emerald Seafood"},
			{"james", "Emerald Seafood"},
			{"john", "Emerald Seafood"},
			{"vinny", "BA Seafood"},
		},
		Species: []string{
			"swordfish",
			"yellowtail",
			"black grouper",
			"yellowfin tuna",
			"bigeye tuna",
			"albacore tuna",
			"salmon",
			"snapper",
			"red snapper",
			"yellowtail snapper",
			"mutton snapper",
			"tilefish",
			"opah",
			"mahi mahi",
			"wahoo",
			"cobia",
			"striped bass",
		},
		WeightRanges: map[string]WeightRange{
			"swordfish":      {40, 500},
			"yellowtail":     {5, 200},
			"yellowfin tuna": {20, 400},
			"bigeye tuna":    {20, 500},
			"albacore tuna":  {10, 200},
			"black grouper":  {5, 150},
			"salmon":         {5, 150},
			"snapper":        {5, 100},
			"red snapper":    {5, 100},
			"tilefish":       {5, 100},
			"opah":           {20, 300},
			"mahi mahi":      {5, 150},
		},
		AWBPattern: DefaultAWBPattern,
	}
	t.awbRe = regexp.MustCompile(t.AWBPattern)
	return t
}

// Load reads vocabulary tables from a YAML file. Omitted sections fall back
// to the built-in defaults, so a file can override just the customer list.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocab file: %w", err)
	}

	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parsing vocab file %s: %w", path, err)
	}

	defaults := Default()
	if len(t.Customers) == 0 {
		t.Customers = defaults.Customers
	}
	if len(t.Species) == 0 {
		t.Species = defaults.Species
	}
	if len(t.WeightRanges) == 0 {
		t.WeightRanges = defaults.WeightRanges
	}
	if t.AWBPattern == "" {
		t.AWBPattern = defaults.AWBPattern
	}

	t.awbRe, err = regexp.Compile(t.AWBPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling awb pattern %q: %w", t.AWBPattern, err)
	}
	return &t, nil
}

// AWBRegexp returns the compiled AWB pattern.
func (t *Table) AWBRegexp() *regexp.Regexp {
	if t.awbRe == nil {
		t.awbRe = regexp.MustCompile(t.AWBPattern)
	}
	return t.awbRe
}

// RangeFor looks up the weight range for a species key (already lowercased).
func (t *Table) RangeFor(species string) (WeightRange, bool) {
	r, ok := t.WeightRanges[species]
	return r, ok
}
