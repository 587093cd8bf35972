package domain

import (
	"regexp"
	"strings"
)

// AWB is an Air Waybill number, the primary shipment identifier. A standard
// AWB is exactly 11 digits after separators are stripped. The sentinel
// MissingAWB marks a shipment whose AWB could not be identified at extraction
// time; it is distinct from a malformed (non-standard) AWB, which is kept
// verbatim and flagged by the anomaly detector rather than rejected.
type AWB string

// MissingAWB is the sentinel for "no AWB could be identified".
const MissingAWB AWB = "MISSING"

var (
	standardAWBPattern = regexp.MustCompile(`^\d{11}$`)
	awbSeparators      = strings.NewReplacer("-", "", " ", "", "\t", "")
)

// NormalizeAWB strips hyphens and whitespace from a raw AWB string. An empty
// or already-sentinel value maps to MissingAWB; anything else is kept
// verbatim, standard or not.
func NormalizeAWB(raw string) AWB {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || AWB(trimmed) == MissingAWB {
		return MissingAWB
	}
	return AWB(awbSeparators.Replace(trimmed))
}

// Missing reports whether the AWB is the extraction-failure sentinel.
func (a AWB) Missing() bool { return a == MissingAWB }

// Standard reports whether the AWB matches the standard 11-digit format.
func (a AWB) Standard() bool { return standardAWBPattern.MatchString(string(a)) }

func (a AWB) String() string { return string(a) }
