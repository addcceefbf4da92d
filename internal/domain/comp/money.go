package comp

import "math"

// RoundCents rounds to 2 decimals, half away from zero. All monetary results
// (and proportion percentages) are rounded here exactly once, at the result
// boundary; intermediate arithmetic stays unrounded so error does not
// compound across the per-deal fan-out.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
