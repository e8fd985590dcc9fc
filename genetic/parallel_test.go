package genetic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapzap/zapzap/strategy"
)

func TestParallelEvaluatorEvaluatesEveryPendingIndividual(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	defaultVector := strategy.DefaultVinceWeights().ToVector()
	constraints := DefaultConstraints()

	individuals := make([]*Individual, 4)
	for i := range individuals {
		individuals[i] = &Individual{Weights: RandomIndividual(defaultVector, constraints, rng)}
	}

	pe := NewParallelEvaluator(2, 4, 99, "balanced", DefaultBaseline)
	pe.EvaluateIndividuals(individuals)

	for _, ind := range individuals {
		assert.True(t, ind.Evaluated)
	}
}

func TestParallelEvaluatorSkipsAlreadyEvaluated(t *testing.T) {
	individuals := []*Individual{
		{Weights: strategy.DefaultVinceWeights(), Fitness: 7, Evaluated: true},
	}

	pe := NewParallelEvaluator(1, 2, 1, "balanced", DefaultBaseline)
	pe.EvaluateIndividuals(individuals)

	assert.Equal(t, float64(7), individuals[0].Fitness, "already-evaluated individuals are left untouched")
}

func TestParallelEvaluatorZeroWorkersAutoDetects(t *testing.T) {
	pe := NewParallelEvaluator(0, 4, 1, "balanced", DefaultBaseline)
	require.Greater(t, pe.Workers, 0)
}
