package genetic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTournamentSelectionReturnsFittestOfSample(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.1, 0.2, 0.9, 0.05))
	rng := rand.New(rand.NewSource(1))

	winner := TournamentSelection(pop, pop.Size(), rng)
	assert.Equal(t, 0.9, winner.Fitness)
}

func TestTournamentSelectionClampsKToPopulationSize(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.4))
	rng := rand.New(rand.NewSource(2))
	assert.NotNil(t, TournamentSelection(pop, 10, rng))
}

func TestSelectEliteReturnsTopNDescending(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.1, 0.7, 0.4, 0.9))
	elite := SelectElite(pop, 2)
	assert.Len(t, elite, 2)
	assert.Equal(t, 0.9, elite[0].Fitness)
	assert.Equal(t, 0.7, elite[1].Fitness)
}

func TestSelectEliteZeroReturnsNil(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.1, 0.2))
	assert.Nil(t, SelectElite(pop, 0))
}

func TestWorstIndicesReturnsLowestFitness(t *testing.T) {
	pop := NewPopulation(individualsWithFitness(0.8, 0.1, 0.5, 0.05))
	worst := WorstIndices(pop, 2)
	assert.ElementsMatch(t, []int{1, 3}, worst)
}
