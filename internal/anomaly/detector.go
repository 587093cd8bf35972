// Package anomaly is the data-quality rule engine. Each check is a pure
// function of its inputs; anomalies come out in input iteration order and
// are never deduplicated across checks.
package anomaly

import (
	"fmt"
	"regexp"
	"strings"

	"tunadex/internal/domain"
	"tunadex/internal/vocab"
)

var sepRe = regexp.MustCompile(`[-\s]`)

// Detector runs anomaly checks over extracted shipment data using injected
// vocabulary tables.
type Detector struct {
	tables *vocab.Table
}

// NewDetector creates a Detector over the given vocabulary tables.
func NewDetector(tables *vocab.Table) *Detector {
	return &Detector{tables: tables}
}

type lineKey struct {
	customer string
	species  string
}

// CheckDoubleCounts flags AWBs that appear in more than one shipment.
// Same AWB with a repeated (customer, species) line fingerprint is a likely
// double-count (ERROR). Same AWB with no repeated fingerprint is a
// legitimately split shipment across multiple emails (WARNING, review
// manually). One anomaly per recurring AWB either way.
func (d *Detector) CheckDoubleCounts(shipments []domain.Shipment) []domain.Anomaly {
	anomalies := make([]domain.Anomaly, 0)

	counts := make(map[domain.AWB]int)
	order := make([]domain.AWB, 0)
	for i := range shipments {
		awb := shipments[i].AWB
		if awb.Missing() {
			continue
		}
		if counts[awb] == 0 {
			order = append(order, awb)
		}
		counts[awb]++
	}

	for _, awb := range order {
		count := counts[awb]
		if count <= 1 {
			continue
		}

		var dupes []*domain.Shipment
		for i := range shipments {
			if shipments[i].AWB == awb {
				dupes = append(dupes, &shipments[i])
			}
		}

		keyCounts := make(map[lineKey]int)
		keyOrder := make([]lineKey, 0)
		relatedEmails := make([]string, 0)
		for _, s := range dupes {
			relatedEmails = append(relatedEmails, s.SourceEmailIDs...)
			for j := range s.Lines {
				key := lineKey{
					customer: strings.ToLower(s.Lines[j].CustomerName),
					species:  strings.ToLower(s.Lines[j].Species),
				}
				if keyCounts[key] == 0 {
					keyOrder = append(keyOrder, key)
				}
				keyCounts[key]++
			}
		}

		var dupeParts []string
		for _, key := range keyOrder {
			if keyCounts[key] > 1 {
				dupeParts = append(dupeParts, fmt.Sprintf("%s/%s (x%d)", key.customer, key.species, keyCounts[key]))
			}
		}

		if len(dupeParts) > 0 {
			anomalies = append(anomalies, domain.Anomaly{
				Type:     domain.AnomalyDoubleCount,
				Severity: domain.SeverityError,
				Description: fmt.Sprintf(
					"AWB %s appears %d times with duplicate line items: %s. This is likely double-counted.",
					awb, count, strings.Join(dupeParts, ", "),
				),
				RelatedAWB:    awb.String(),
				RelatedEmails: relatedEmails,
			})
		} else {
			anomalies = append(anomalies, domain.Anomaly{
				Type:     domain.AnomalyDoubleCount,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf(
					"AWB %s appears in %d emails but with different line items - may be a split shipment (review manually).",
					awb, count,
				),
				RelatedAWB:    awb.String(),
				RelatedEmails: relatedEmails,
			})
		}
	}

	return anomalies
}

// CheckMissingPaperwork scans each email's body and subject for AWB-shaped
// substrings and flags mentions that have no extracted shipment. One anomaly
// per (email, mention) pair; repeated mentions are not suppressed.
func (d *Detector) CheckMissingPaperwork(emails []domain.EmailDetail, shipments []domain.Shipment) []domain.Anomaly {
	anomalies := make([]domain.Anomaly, 0)

	extracted := make(map[string]bool)
	for i := range shipments {
		if !shipments[i].AWB.Missing() {
			extracted[shipments[i].AWB.String()] = true
		}
	}

	re := d.tables.AWBRegexp()
	for i := range emails {
		email := &emails[i]
		text := email.BodyText + " " + email.Subject
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			awb := sepRe.ReplaceAllString(m[1], "")
			if extracted[awb] {
				continue
			}
			anomalies = append(anomalies, domain.Anomaly{
				Type:     domain.AnomalyMissingPaperwork,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf(
					"Email '%s' mentions AWB %s but no shipment data was extracted for it. Missing paperwork?",
					email.Subject, awb,
				),
				RelatedAWB:    awb,
				RelatedEmails: []string{email.MessageID},
			})
		}
	}

	return anomalies
}

// CheckAWBConsistency validates AWB format and flags missing AWBs. A
// shipment emits at most one anomaly from this check.
func (d *Detector) CheckAWBConsistency(shipments []domain.Shipment) []domain.Anomaly {
	anomalies := make([]domain.Anomaly, 0)

	for i := range shipments {
		s := &shipments[i]
		switch {
		case s.AWB.Missing():
			anomalies = append(anomalies, domain.Anomaly{
				Type:     domain.AnomalyMissingAWB,
				Severity: domain.SeverityError,
				Description: fmt.Sprintf(
					"Shipment from %s on %s has no AWB. This needs manual review.",
					s.Supplier, s.Date,
				),
				RelatedEmails: s.SourceEmailIDs,
			})
		case !s.AWB.Standard():
			anomalies = append(anomalies, domain.Anomaly{
				Type:     domain.AnomalyAWBMismatch,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf(
					"AWB '%s' has non-standard format (expected 11 digits). Verify correctness.",
					s.AWB,
				),
				RelatedAWB:    s.AWB.String(),
				RelatedEmails: s.SourceEmailIDs,
			})
		}
	}

	return anomalies
}

// CheckWeightOutliers flags lines whose weight falls outside the typical
// range for their species. Species without a range entry and lines without
// a weight are skipped silently.
func (d *Detector) CheckWeightOutliers(shipments []domain.Shipment) []domain.Anomaly {
	anomalies := make([]domain.Anomaly, 0)

	for i := range shipments {
		s := &shipments[i]
		for j := range s.Lines {
			line := &s.Lines[j]
			if line.WeightLbs == nil {
				continue
			}
			r, ok := d.tables.RangeFor(strings.ToLower(line.Species))
			if !ok {
				continue
			}
			if *line.WeightLbs >= r.Min && *line.WeightLbs <= r.Max {
				continue
			}
			anomalies = append(anomalies, domain.Anomaly{
				Type:     domain.AnomalyWeightOutlier,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf(
					"AWB %s: %s to %s weighs %g lbs, outside typical range (%g-%g lbs). Verify weight.",
					s.AWB, line.Species, line.CustomerName, *line.WeightLbs, r.Min, r.Max,
				),
				RelatedAWB:    s.AWB.String(),
				RelatedEmails: s.SourceEmailIDs,
			})
		}
	}

	return anomalies
}

// RunAllChecks runs every check and concatenates the results in fixed
// order: double counts, missing paperwork, AWB consistency, weight
// outliers.
func (d *Detector) RunAllChecks(emails []domain.EmailDetail, shipments []domain.Shipment) []domain.Anomaly {
	anomalies := make([]domain.Anomaly, 0)
	anomalies = append(anomalies, d.CheckDoubleCounts(shipments)...)
	anomalies = append(anomalies, d.CheckMissingPaperwork(emails, shipments)...)
	anomalies = append(anomalies, d.CheckAWBConsistency(shipments)...)
	anomalies = append(anomalies, d.CheckWeightOutliers(shipments)...)
	return anomalies
}
