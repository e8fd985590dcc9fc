package genetic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zapzap/zapzap/strategy"
)

func TestMutateZeroRateLeavesWeightsUnchanged(t *testing.T) {
	defaultVector := strategy.DefaultVinceWeights().ToVector()
	constraints := DefaultConstraints()
	rng := rand.New(rand.NewSource(1))

	w := strategy.DefaultVinceWeights()
	mutated := Mutate(w, 0, 0.5, defaultVector, constraints, rng)
	assert.Equal(t, w, mutated)
}

func TestMutateFullRateStaysWithinConstraints(t *testing.T) {
	defaultVector := strategy.DefaultVinceWeights().ToVector()
	constraints := DefaultConstraints()
	rng := rand.New(rand.NewSource(2))

	w := strategy.DefaultVinceWeights()
	mutated := Mutate(w, 1.0, 0.9, defaultVector, constraints, rng)

	for g, v := range mutated.ToVector() {
		lo := defaultVector[g] * constraints[g].MinMult
		hi := defaultVector[g] * constraints[g].MaxMult
		if lo > hi {
			lo, hi = hi, lo
		}
		assert.GreaterOrEqual(t, v, lo)
		assert.LessOrEqual(t, v, hi)
	}
}

func TestRandomIndividualStaysWithinConstraints(t *testing.T) {
	defaultVector := strategy.DefaultVinceWeights().ToVector()
	constraints := DefaultConstraints()
	rng := rand.New(rand.NewSource(3))

	w := RandomIndividual(defaultVector, constraints, rng)
	for g, v := range w.ToVector() {
		lo := defaultVector[g] * constraints[g].MinMult
		hi := defaultVector[g] * constraints[g].MaxMult
		if lo > hi {
			lo, hi = hi, lo
		}
		assert.GreaterOrEqual(t, v, lo)
		assert.LessOrEqual(t, v, hi)
	}
}

func TestSmallVariationStaysCloseToBase(t *testing.T) {
	defaultVector := strategy.DefaultVinceWeights().ToVector()
	constraints := DefaultConstraints()
	rng := rand.New(rand.NewSource(4))

	base := strategy.DefaultVinceWeights()
	variant := SmallVariation(base, defaultVector, constraints, rng)

	baseVector := base.ToVector()
	for g, v := range variant.ToVector() {
		if baseVector[g] == 0 {
			continue
		}
		ratio := v / baseVector[g]
		assert.InDelta(t, 1.0, ratio, 0.05+1e-9)
	}
}
