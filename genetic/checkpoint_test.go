package genetic

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadCheckpointRoundTrip(t *testing.T) {
	e := NewEngine(smallTestConfig())
	e.InitializePopulation()
	e.EvaluatePopulation()
	e.BestEver = e.Population.GetBestIndividual().Clone()
	e.StatsHistory = append(e.StatsHistory, GenerationStats{Generation: 0, BestFitness: e.BestEver.Fitness})

	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, e.SaveCheckpoint(path))

	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)

	assert.Equal(t, e.Population.Generation, loaded.Generation)
	assert.Len(t, loaded.Population, e.Population.Size())
	assert.Equal(t, e.BestEver.Weights, loaded.BestEver.Weights)
	assert.Equal(t, e.StatsHistory, loaded.StatsHistory)
}

func TestResumeFromCheckpointRestoresPopulationAndBestEver(t *testing.T) {
	e := NewEngine(smallTestConfig())
	e.InitializePopulation()
	e.EvaluatePopulation()
	e.BestEver = e.Population.GetBestIndividual().Clone()
	e.Population.Generation = 3

	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, e.SaveCheckpoint(path))

	resumed, err := ResumeFromCheckpoint(path)
	require.NoError(t, err)

	assert.Equal(t, 3, resumed.Population.Generation)
	assert.Equal(t, e.Population.Size(), resumed.Population.Size())
	assert.Equal(t, e.BestEver.Weights, resumed.BestEver.Weights)
}

func TestAutoCheckpointerSkipsGenerationZeroAndOffInterval(t *testing.T) {
	e := NewEngine(smallTestConfig())
	e.InitializePopulation()
	e.EvaluatePopulation()

	path := filepath.Join(t.TempDir(), "auto.json")
	ac := NewAutoCheckpointer(e, path, 5)

	assert.False(t, ac.ShouldSave(0))
	assert.False(t, ac.ShouldSave(3))
	assert.True(t, ac.ShouldSave(5))

	require.NoError(t, ac.Save(5))
	assert.Equal(t, 5, ac.LastSaved)
	assert.False(t, ac.ShouldSave(5))
}

func TestAutoCheckpointerDisabledWhenIntervalZero(t *testing.T) {
	e := NewEngine(smallTestConfig())
	path := filepath.Join(t.TempDir(), "auto.json")
	ac := NewAutoCheckpointer(e, path, 0)
	assert.False(t, ac.ShouldSave(5))
}
