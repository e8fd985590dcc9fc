package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zapzap/zapzap/strategy"
)

func TestDefaultConstraintsHasOneEntryPerGene(t *testing.T) {
	c := DefaultConstraints()
	assert.Len(t, c, strategy.VinceWeightCount)
}

func TestDefaultConstraintsWidensZapZapThresholdGenes(t *testing.T) {
	c := DefaultConstraints()
	for _, idx := range []int{16, 17, 20} {
		assert.Equal(t, wideConstraint, c[idx], "gene %d should use the wide constraint", idx)
	}
	// A gene outside the override list keeps the default band.
	assert.Equal(t, defaultConstraint, c[0])
}

func TestClampBoundsToInterval(t *testing.T) {
	defaultVector := strategy.DefaultVinceWeights().ToVector()
	constraints := DefaultConstraints()

	g := 0
	base := defaultVector[g]
	lo := base * constraints[g].MinMult
	hi := base * constraints[g].MaxMult

	assert.Equal(t, lo, Clamp(defaultVector, constraints, g, lo-1000))
	assert.Equal(t, hi, Clamp(defaultVector, constraints, g, hi+1000))

	mid := (lo + hi) / 2
	assert.Equal(t, mid, Clamp(defaultVector, constraints, g, mid))
}

func TestClampZeroMinMultAllowsZero(t *testing.T) {
	defaultVector := strategy.DefaultVinceWeights().ToVector()
	constraints := DefaultConstraints()
	assert.Equal(t, 0.0, Clamp(defaultVector, constraints, 16, -5))
}
