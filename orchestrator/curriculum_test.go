package orchestrator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapzap/zapzap/strategy"
)

func testPhases() []CurriculumPhase {
	easy := func() strategy.Strategy { return strategy.NewEasy(1) }
	hard := func() strategy.Strategy { return strategy.Hard{} }
	return []CurriculumPhase{
		{Name: "easy", Opponents: []func() strategy.Strategy{easy}},
		{Name: "hard", Opponents: []func() strategy.Strategy{hard}},
	}
}

func TestCurriculumAdvancesOnceThresholdAndMinGamesMet(t *testing.T) {
	c := NewCurriculum(testPhases(), CurriculumConfig{WinRateThreshold: 0.5, MinGames: 10, MaxGames: 1000})
	c.RecordBatch(5, 4)
	assert.False(t, c.MaybeAdvance(), "below MinGames should not advance")

	c.RecordBatch(5, 4)
	assert.True(t, c.MaybeAdvance())
	assert.Equal(t, 1, c.CurrentPhase)
	assert.Equal(t, "easy", c.Current().Name)
	require.Len(t, c.PhaseHistory, 1)
	assert.Equal(t, 10, c.PhaseHistory[0].Games)
}

func TestCurriculumForceAdvancesAtMaxGamesRegardlessOfWinRate(t *testing.T) {
	c := NewCurriculum(testPhases(), CurriculumConfig{WinRateThreshold: 0.99, MinGames: 5, MaxGames: 20})
	c.RecordBatch(20, 1)
	assert.True(t, c.MaybeAdvance())
	assert.Equal(t, 1, c.CurrentPhase)
}

func TestCurriculumDoneAfterLastPhase(t *testing.T) {
	c := NewCurriculum(testPhases(), CurriculumConfig{WinRateThreshold: 0.1, MinGames: 1, MaxGames: 100})
	c.RecordBatch(5, 5)
	require.True(t, c.MaybeAdvance())
	assert.False(t, c.Done())

	c.RecordBatch(5, 5)
	require.True(t, c.MaybeAdvance())
	assert.True(t, c.Done())
	assert.False(t, c.MaybeAdvance())
}

func TestWinRateIsZeroWithNoGames(t *testing.T) {
	c := NewCurriculum(testPhases(), DefaultCurriculumConfig())
	assert.Equal(t, 0.0, c.WinRate())
}

func TestCurriculumCheckpointRoundTrip(t *testing.T) {
	cfg := CurriculumConfig{WinRateThreshold: 0.5, MinGames: 1, MaxGames: 100}
	c := NewCurriculum(testPhases(), cfg)
	c.RecordBatch(10, 6)
	require.True(t, c.MaybeAdvance())
	c.RecordBatch(3, 1)

	path := filepath.Join(t.TempDir(), "curriculum.json")
	require.NoError(t, SaveCurriculumCheckpoint(c, path))

	restored, err := LoadCurriculumCheckpoint(path, testPhases(), cfg)
	require.NoError(t, err)
	assert.Equal(t, c.CurrentPhase, restored.CurrentPhase)
	assert.Equal(t, c.TotalGamesPlayed, restored.TotalGamesPlayed)
	assert.Equal(t, c.PhaseHistory, restored.PhaseHistory)
	assert.Equal(t, 0, restored.GamesInPhase, "in-flight phase counters are not persisted, only completed-phase history")
}
