package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zapzap/zapzap/strategy"
)

func smallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 6
	cfg.Generations = 2
	cfg.EliteCount = 1
	cfg.GamesPerEval = 4
	cfg.Seed = 123
	return cfg
}

func TestInitializePopulationSeedsDefaultAndVariant(t *testing.T) {
	e := NewEngine(smallTestConfig())
	e.InitializePopulation()

	assert.Equal(t, 6, e.Population.Size())
	assert.Equal(t, strategy.DefaultVinceWeights(), e.Population.Individuals[0].Weights)
	for _, ind := range e.Population.Individuals {
		assert.False(t, ind.Evaluated)
	}
}

func TestEvaluatePopulationMarksEveryIndividualEvaluated(t *testing.T) {
	e := NewEngine(smallTestConfig())
	e.InitializePopulation()
	e.EvaluatePopulation()

	for _, ind := range e.Population.Individuals {
		assert.True(t, ind.Evaluated)
	}
	// A second pass has nothing left to evaluate.
	e.EvaluatePopulation()
}

func TestCreateOffspringPreservesEliteAndPopulationSize(t *testing.T) {
	e := NewEngine(smallTestConfig())
	e.InitializePopulation()
	e.EvaluatePopulation()

	best := e.Population.GetBestIndividual()
	offspring := e.CreateOffspring()

	assert.Len(t, offspring, e.Config.PopulationSize)
	assert.Equal(t, best.Weights, offspring[0].Weights)
}

func TestEvolveProducesABestEverIndividual(t *testing.T) {
	e := NewEngine(smallTestConfig())
	e.Evolve()

	assert.NotNil(t, e.BestEver)
	assert.True(t, e.BestEver.Evaluated)
	assert.Len(t, e.StatsHistory, e.Config.Generations)
}

func TestEvolveInvokesGenerationCallback(t *testing.T) {
	e := NewEngine(smallTestConfig())
	calls := 0
	e.OnGenerationComplete = func(GenerationStats) { calls++ }
	e.Evolve()
	assert.Equal(t, e.Config.Generations, calls)
}

func TestApplyDiversitySafeguardReinjectsWhenConverged(t *testing.T) {
	e := NewEngine(smallTestConfig())
	e.Config.DiversityFloor = 1.0 // force the safeguard to always trigger
	e.InitializePopulation()
	e.EvaluatePopulation()

	before := make([]strategy.VinceWeights, e.Population.Size())
	for i, ind := range e.Population.Individuals {
		before[i] = ind.Weights
	}

	e.applyDiversitySafeguard()

	changed := false
	for i, ind := range e.Population.Individuals {
		if ind.Weights != before[i] {
			changed = true
		}
	}
	assert.True(t, changed)
}
