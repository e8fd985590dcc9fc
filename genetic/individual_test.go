package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zapzap/zapzap/strategy"
)

func TestIndividualCloneIsIndependent(t *testing.T) {
	ind := &Individual{Weights: strategy.DefaultVinceWeights(), Fitness: 0.5, Evaluated: true}
	clone := ind.Clone()

	assert.Equal(t, ind.Weights, clone.Weights)
	assert.Equal(t, ind.Fitness, clone.Fitness)
	assert.Equal(t, ind.Evaluated, clone.Evaluated)

	clone.Fitness = 0.9
	clone.Weights.AggressionBias = 99
	assert.Equal(t, 0.5, ind.Fitness)
	assert.NotEqual(t, float64(99), ind.Weights.AggressionBias)
}
