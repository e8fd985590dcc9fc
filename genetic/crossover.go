package genetic

import (
	"math/rand"

	"github.com/zapzap/zapzap/strategy"
)

// BlendAlpha is the extension factor blend crossover samples beyond
// [min(p1,p2), max(p1,p2)] before clamping to the gene's constraint.
const BlendAlpha = 0.2

// BlendCrossover produces two children from two parent vectors: for
// every gene, each child independently samples uniformly from
// [min(p1,p2) - alpha*range, max(p1,p2) + alpha*range], then clamps to
// the gene's constraint interval (§4.7).
func BlendCrossover(p1, p2 strategy.VinceWeights, defaultVector []float64, constraints []GeneConstraint, rng *rand.Rand) (strategy.VinceWeights, strategy.VinceWeights) {
	v1 := p1.ToVector()
	v2 := p2.ToVector()
	c1 := make([]float64, len(v1))
	c2 := make([]float64, len(v1))

	for g := range v1 {
		lo, hi := v1[g], v2[g]
		if lo > hi {
			lo, hi = hi, lo
		}
		span := hi - lo
		extLo := lo - BlendAlpha*span
		extHi := hi + BlendAlpha*span

		c1[g] = Clamp(defaultVector, constraints, g, extLo+rng.Float64()*(extHi-extLo))
		c2[g] = Clamp(defaultVector, constraints, g, extLo+rng.Float64()*(extHi-extLo))
	}

	return strategy.VinceWeightsFromVector(c1), strategy.VinceWeightsFromVector(c2)
}
