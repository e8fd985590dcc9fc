package genetic

import "github.com/zapzap/zapzap/strategy"

// GeneConstraint bounds one gene as a multiplier of its default value:
// the gene's legal range is [default*MinMult, default*MaxMult].
type GeneConstraint struct {
	MinMult float64
	MaxMult float64
}

// defaultConstraint is applied to every gene unless overridden below:
// +/-70% of the default value is a wide enough band to let search
// explore while keeping weights in the same ballpark as HardVince's
// hand-tuned baseline.
var defaultConstraint = GeneConstraint{MinMult: 0.3, MaxMult: 1.7}

// wideConstraint is used for the small number of genes whose useful
// range plausibly spans much more than the default band (thresholds
// and penalties that could reasonably be turned off or doubled).
var wideConstraint = GeneConstraint{MinMult: 0, MaxMult: 3.0}

// DefaultConstraints returns the per-gene (min_mult, max_mult) table in
// strategy.VinceWeights.ToVector's gene order.
func DefaultConstraints() []GeneConstraint {
	c := make([]GeneConstraint, strategy.VinceWeightCount)
	for i := range c {
		c[i] = defaultConstraint
	}
	// Thresholds and hard-cutoff-adjacent genes get the wider band since
	// a constrained search should be free to push them toward "always
	// call" or "never call" to find the true optimum.
	for _, idx := range []int{
		16, // ZapZapBaseValueThreshold
		17, // ZapZapDefensiveRiskThreshold
		20, // ZapZapMaxValue
	} {
		if idx < len(c) {
			c[idx] = wideConstraint
		}
	}
	return c
}

// Clamp bounds v to gene g's constraint interval given the default
// vector (the interval is relative to the default's own value).
func Clamp(defaultVector []float64, constraints []GeneConstraint, g int, v float64) float64 {
	base := defaultVector[g]
	lo := base * constraints[g].MinMult
	hi := base * constraints[g].MaxMult
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
