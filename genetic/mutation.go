package genetic

import (
	"math/rand"

	"github.com/zapzap/zapzap/strategy"
)

// Mutate perturbs each gene independently with probability rate by
// multiplying it by 1 +/- uniform(0, mutationRange), then clamping to
// the gene's constraint interval (§4.7).
func Mutate(w strategy.VinceWeights, rate, mutationRange float64, defaultVector []float64, constraints []GeneConstraint, rng *rand.Rand) strategy.VinceWeights {
	v := w.ToVector()
	for g := range v {
		if rng.Float64() >= rate {
			continue
		}
		delta := rng.Float64() * mutationRange
		if rng.Float64() < 0.5 {
			delta = -delta
		}
		v[g] = Clamp(defaultVector, constraints, g, v[g]*(1+delta))
	}
	return strategy.VinceWeightsFromVector(v)
}

// RandomIndividual draws a fresh weight vector uniformly from every
// gene's constraint interval.
func RandomIndividual(defaultVector []float64, constraints []GeneConstraint, rng *rand.Rand) strategy.VinceWeights {
	v := make([]float64, len(defaultVector))
	for g := range v {
		lo := defaultVector[g] * constraints[g].MinMult
		hi := defaultVector[g] * constraints[g].MaxMult
		if lo > hi {
			lo, hi = hi, lo
		}
		v[g] = lo + rng.Float64()*(hi-lo)
	}
	return strategy.VinceWeightsFromVector(v)
}

// SmallVariation returns a copy of base with every gene nudged by up to
// +/-5%, clamped to its constraint (the initial population's
// "small-variation copy" individual, §4.7).
func SmallVariation(base strategy.VinceWeights, defaultVector []float64, constraints []GeneConstraint, rng *rand.Rand) strategy.VinceWeights {
	return Mutate(base, 1.0, 0.05, defaultVector, constraints, rng)
}
