package plan

import (
	"fmt"
	"math"
	"sort"

	"salescomp/internal/domain/comp"
)

const sumTolerance = 0.001

// ValidateMetrics checks a full metric set before it replaces a plan's
// configuration: weightages sum to 100, every non-empty split sums to 100,
// logic types are known, gated metrics carry a gate, and each grid is a
// well-formed band sequence.
func ValidateMetrics(metrics []Metric) error {
	if len(metrics) == 0 {
		return ErrNoMetrics
	}

	var weightage float64
	for _, metric := range metrics {
		weightage += metric.WeightagePct

		switch metric.LogicType {
		case comp.LogicLinear, comp.LogicGatedThreshold, comp.LogicSteppedAccelerator:
		default:
			return fmt.Errorf("%w: %q on metric %q", ErrBadLogicType, metric.LogicType, metric.Name)
		}
		if metric.LogicType == comp.LogicGatedThreshold && metric.GateThresholdPct == nil {
			return fmt.Errorf("%w: metric %q", ErrGateRequired, metric.Name)
		}
		if err := validateSplit(metric.Split); err != nil {
			return fmt.Errorf("%w: metric %q", err, metric.Name)
		}
		if err := validateBands(metric.Bands); err != nil {
			return fmt.Errorf("%w: metric %q", err, metric.Name)
		}
	}

	if math.Abs(weightage-100) > sumTolerance {
		return fmt.Errorf("%w: got %.3f", ErrWeightageSum, weightage)
	}
	return nil
}

// ValidateSpiff checks a spiff pool before it is stored.
func ValidateSpiff(spiff Spiff) error {
	if spiff.PoolUSD < 0 {
		return fmt.Errorf("spiff %q: pool must not be negative", spiff.Name)
	}
	if err := validateSplit(spiff.Split); err != nil {
		return fmt.Errorf("%w: spiff %q", err, spiff.Name)
	}
	return nil
}

// validateSplit accepts the zero split, which means the calculator falls
// back to the default 70/25/5.
func validateSplit(split comp.PayoutSplit) error {
	if split.IsZero() {
		return nil
	}
	sum := split.BookingPct + split.CollectionPct + split.YearEndPct
	if math.Abs(sum-100) > sumTolerance {
		return ErrSplitSum
	}
	return nil
}

func validateBands(bands []comp.MultiplierBand) error {
	if len(bands) == 0 {
		return nil
	}
	sorted := make([]comp.MultiplierBand, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FromPct < sorted[j].FromPct })

	for i, band := range sorted {
		if band.FromPct < 0 || band.Multiplier < 0 {
			return ErrBandRange
		}
		if band.ToPct != nil && *band.ToPct < band.FromPct {
			return ErrBandRange
		}
		if band.ToPct == nil && i != len(sorted)-1 {
			return ErrBandUnboundedNotLast
		}
		if i > 0 {
			prev := sorted[i-1]
			if prev.ToPct == nil || band.FromPct < *prev.ToPct {
				return ErrBandOverlap
			}
		}
	}
	return nil
}
