package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/engine"
	"github.com/zapzap/zapzap/state"
	"github.com/zapzap/zapzap/strategy"
)

func newCard(suit cards.Suit, rank cards.Rank) cards.Card {
	return cards.Card(int(suit)*cards.NumRanks + int(rank))
}

func TestClassifyHandSizeActionPicksNearestSlot(t *testing.T) {
	assert.Equal(t, 0, classifyHandSizeAction(4))
	assert.Equal(t, 0, classifyHandSizeAction(3))
	assert.Equal(t, 6, classifyHandSizeAction(10))
	assert.Equal(t, 6, classifyHandSizeAction(11))
	assert.Equal(t, 3, classifyHandSizeAction(7))
}

func TestClassifyPlayTypeActionPassIsFour(t *testing.T) {
	assert.Equal(t, 4, classifyPlayTypeAction(nil, cards.Hand{}))
}

func TestClassifyPlayTypeActionRecognizesSmallestSingle(t *testing.T) {
	hand := cards.Hand{
		newCard(cards.Clubs, cards.Three),
		newCard(cards.Spades, cards.King),
	}
	plays := analyzer.FindAllValidPlays(hand)
	require.NotEmpty(t, plays)

	var smallest cards.Hand
	for _, p := range plays {
		if analyzer.ClassifyPlay(p) != analyzer.Single {
			continue
		}
		if smallest == nil || len(p) < len(smallest) {
			smallest = p
		}
	}
	require.NotNil(t, smallest)
	assert.Equal(t, 0, classifyPlayTypeAction(smallest, hand))
}

func TestImitationStrategyRecordsTransitionsAcrossAGame(t *testing.T) {
	collector := &transitionCollector{}
	weights := strategy.DefaultVinceWeights()
	agent := NewImitationStrategy(weights, collector)

	strategies := []strategy.Strategy{
		agent,
		strategy.NewHardVince(weights),
		strategy.NewHardVince(weights),
		strategy.NewHardVince(weights),
	}

	gameResult, err := engine.RunGame(strategies, 555)
	require.NoError(t, err)
	agent.OnGameEnd(strategy.GameResult{
		Winner:      gameResult.Winner,
		FinalScores: gameResult.FinalScores,
		Rounds:      gameResult.Rounds,
	}, 0)

	require.NotEmpty(t, collector.transitions)
	for _, tr := range collector.transitions {
		assert.Less(t, int(tr.DecisionType), int(state.NumDecisionTypes))
		assert.NotEmpty(t, tr.StateVector)
	}
}

func TestPrefillBufferFillsUpToFractionOfCapacity(t *testing.T) {
	buf := NewCentralBuffer(1000)
	err := PrefillBuffer(buf, strategy.DefaultVinceWeights(), 1000, 5, 1)
	require.NoError(t, err)

	for d := state.DecisionType(0); d < state.NumDecisionTypes; d++ {
		assert.LessOrEqual(t, buf.Len(d), int(1000*ImitationFraction))
	}
}

func TestTopTransitionsSortsDescendingAndTruncates(t *testing.T) {
	transitions := []state.Transition{
		{Reward: 1}, {Reward: 5}, {Reward: 3},
	}
	top := topTransitions(transitions, 2)
	require.Len(t, top, 2)
	assert.Equal(t, 5.0, top[0].Reward)
	assert.Equal(t, 3.0, top[1].Reward)
}
