package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zapzap/zapzap/strategy"
)

func individualsWithFitness(fitnesses ...float64) []*Individual {
	out := make([]*Individual, len(fitnesses))
	for i, f := range fitnesses {
		out[i] = &Individual{Weights: strategy.DefaultVinceWeights(), Fitness: f, Evaluated: true}
	}
	return out
}

func TestGetBestIndividualReturnsHighestFitness(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.3, 0.9, 0.1))
	assert.Equal(t, 0.9, pop.GetBestIndividual().Fitness)
}

func TestGetBestIndividualEmptyPopulation(t *testing.T) {
	pop := NewPopulation(nil)
	assert.Nil(t, pop.GetBestIndividual())
}

func TestGetAverageFitnessSkipsUnevaluated(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.2, 0.8))
	pop.Individuals = append(pop.Individuals, &Individual{Fitness: 1000, Evaluated: false})
	assert.InDelta(t, 0.5, pop.GetAverageFitness(), 1e-9)
}

func TestGetUnevaluatedFiltersEvaluated(t *testing.T) {
	evaluated := &Individual{Fitness: 1, Evaluated: true}
	pending := &Individual{Evaluated: false}
	pop := NewPopulation([]*Individual{evaluated, pending})

	unevaluated := pop.GetUnevaluated()
	assert.Len(t, unevaluated, 1)
	assert.Same(t, pending, unevaluated[0])
}

func TestSortByFitnessDescending(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.1, 0.5, 0.3))
	sorted := pop.SortByFitness()
	assert.Equal(t, []float64{0.5, 0.3, 0.1}, []float64{sorted[0].Fitness, sorted[1].Fitness, sorted[2].Fitness})
}

func TestMeanGeneCoefficientOfVariationZeroForIdenticalPopulation(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.5, 0.5, 0.5))
	assert.InDelta(t, 0, pop.MeanGeneCoefficientOfVariation(), 1e-12)
}

func TestMeanGeneCoefficientOfVariationPositiveForDivergentPopulation(t *testing.T) {
	a := strategy.DefaultVinceWeights()
	b := strategy.DefaultVinceWeights()
	b.AggressionBias = 5
	b.ResidualHandValueWeight *= 3

	pop := NewPopulation([]*Individual{
		{Weights: a, Fitness: 0.4, Evaluated: true},
		{Weights: b, Fitness: 0.6, Evaluated: true},
	})
	assert.Greater(t, pop.MeanGeneCoefficientOfVariation(), 0.0)
}

func TestMeanGeneCoefficientOfVariationSingleIndividual(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.5))
	assert.Equal(t, 0.0, pop.MeanGeneCoefficientOfVariation())
}
