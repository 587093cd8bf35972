package domain

// SpeciesTotal accumulates boxes and weight for one species.
type SpeciesTotal struct {
	Boxes     int     `json:"boxes"`
	WeightLbs float64 `json:"weight_lbs"`
}

// CustomerTotal accumulates boxes, weight, and line count for one customer.
type CustomerTotal struct {
	Boxes      int     `json:"boxes"`
	WeightLbs  float64 `json:"weight_lbs"`
	OrderCount int     `json:"order_count"`
}

// ShipmentTotals is the derived aggregate over a shipment list. It is always
// recomputed wholesale from the list, never hand-constructed or updated
// incrementally.
type ShipmentTotals struct {
	TotalBoxes        int                      `json:"total_boxes"`
	TotalWeightLbs    float64                  `json:"total_weight_lbs"`
	SpeciesBreakdown  map[string]SpeciesTotal  `json:"species_breakdown"`
	CustomerBreakdown map[string]CustomerTotal `json:"customer_breakdown"`
}

// ComputeTotals folds every shipment line into a fresh ShipmentTotals.
// Absent box counts and weights count as zero in the fold; the lines
// themselves are not touched. Species buckets use the species string
// verbatim, case-sensitive; customer buckets use the company when present,
// else the customer name. The fold always runs in shipment-then-line order,
// so repeated calls over the same list are bit-identical.
func ComputeTotals(shipments []Shipment) ShipmentTotals {
	totals := ShipmentTotals{
		SpeciesBreakdown:  make(map[string]SpeciesTotal),
		CustomerBreakdown: make(map[string]CustomerTotal),
	}

	for i := range shipments {
		for j := range shipments[i].Lines {
			line := &shipments[i].Lines[j]

			boxes := 0
			if line.Boxes != nil {
				boxes = *line.Boxes
			}
			weight := 0.0
			if line.WeightLbs != nil {
				weight = *line.WeightLbs
			}

			totals.TotalBoxes += boxes
			totals.TotalWeightLbs += weight

			sp := totals.SpeciesBreakdown[line.Species]
			sp.Boxes += boxes
			sp.WeightLbs += weight
			totals.SpeciesBreakdown[line.Species] = sp

			key := line.CustomerKey()
			ct := totals.CustomerBreakdown[key]
			ct.Boxes += boxes
			ct.WeightLbs += weight
			ct.OrderCount++
			totals.CustomerBreakdown[key] = ct
		}
	}

	return totals
}
