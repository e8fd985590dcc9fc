package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/state"
	"github.com/zapzap/zapzap/strategy"
)

func freshArtifact(seed int64) qnet.WeightsArtifact {
	return qnet.New(seed).ToArtifact()
}

func easyOpponents() []func() strategy.Strategy {
	return []func() strategy.Strategy{
		func() strategy.Strategy { return strategy.NewEasy(1) },
	}
}

func TestNewWorkerBuildsUsablePolicy(t *testing.T) {
	w, err := NewWorker(0, 42, freshArtifact(1), 0.3)
	require.NoError(t, err)
	assert.Equal(t, 0, w.ID)
	assert.NotNil(t, w.Policy)
	assert.Equal(t, 0.3, w.Policy.Epsilon)
}

func TestRunBatchRequiresOpponents(t *testing.T) {
	w, err := NewWorker(0, 1, freshArtifact(1), 0.3)
	require.NoError(t, err)

	_, _, err = w.RunBatch(RunBatchMessage{BatchSize: 2, BaseSeed: 0})
	assert.Error(t, err)
}

func TestRunBatchPlaysRequestedGamesAndCollectsTransitions(t *testing.T) {
	w, err := NewWorker(0, 7, freshArtifact(7), 0.3)
	require.NoError(t, err)

	stats, transitions, err := w.RunBatch(RunBatchMessage{
		BatchSize: 3,
		Opponents: easyOpponents(),
		BaseSeed:  100,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Games)
	assert.GreaterOrEqual(t, stats.AgentWins, 0)
	assert.LessOrEqual(t, stats.AgentWins, stats.Games)
	assert.NotEmpty(t, transitions)

	for _, tr := range transitions {
		assert.Less(t, int(tr.DecisionType), int(state.NumDecisionTypes))
		assert.NotEmpty(t, tr.StateVector)
	}
}

func TestApplyWeightsReplacesNetworkAndEpsilon(t *testing.T) {
	w, err := NewWorker(0, 3, freshArtifact(3), 0.3)
	require.NoError(t, err)

	err = w.ApplyWeights(freshArtifact(99), 0.05)
	require.NoError(t, err)
	assert.Equal(t, 0.05, w.Policy.Epsilon)
}
