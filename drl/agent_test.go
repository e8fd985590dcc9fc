package drl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/replay"
	"github.com/zapzap/zapzap/state"
	"github.com/zapzap/zapzap/strategy"
)

func sampleState(hands []cards.Hand, turn int) state.GameState {
	return state.GameState{
		Hands:           hands,
		Eliminated:      make([]bool, len(hands)),
		Scores:          make([]int, len(hands)),
		CurrentTurn:     turn,
		LastCardsPlayed: cards.Hand{10},
		RoundNumber:     1,
	}
}

func TestRLStrategySelectPlayReturnsValidSubset(t *testing.T) {
	r := NewRLStrategy(NewPolicy(qnet.New(1), 1), nil)
	hand := cards.Hand{0, 1, 13, 26}
	s := sampleState([]cards.Hand{hand, {2, 3}}, 0)
	play := r.SelectPlay(hand, s)
	if play != nil {
		assert.True(t, hand.Contains(play))
		assert.True(t, analyzer.IsValidPlay(play))
	}
}

func TestRLStrategySelectHandSizeReturnsInRange(t *testing.T) {
	r := NewRLStrategy(NewPolicy(qnet.New(1), 1), nil)
	size := r.SelectHandSize(3, false)
	assert.GreaterOrEqual(t, size, 4)
	assert.LessOrEqual(t, size, 10)
}

func TestRLStrategySelectDrawSourceReturnsValidSource(t *testing.T) {
	r := NewRLStrategy(NewPolicy(qnet.New(1), 1), nil)
	hand := cards.Hand{0, 1}
	s := sampleState([]cards.Hand{hand, {2, 3}}, 0)
	source := r.SelectDrawSource(hand, s.LastCardsPlayed, s)
	assert.Contains(t, []state.DrawSource{state.DrawFromDeck, state.DrawFromPlayed}, source)
}

func TestRLStrategyRecordsTransitionsOnGameEnd(t *testing.T) {
	buf := replay.NewBuffer(64)
	r := NewRLStrategy(NewPolicy(qnet.New(3), 3), buf)

	hand := cards.Hand{0, 1}
	s := sampleState([]cards.Hand{hand, {2, 3}}, 0)

	r.ShouldZapZap(hand, s)
	r.SelectPlay(hand, s)
	r.SelectDrawSource(hand, s.LastCardsPlayed, s)
	r.SelectHandSize(2, false)

	before := buf.Len()
	r.OnGameEnd(strategy.GameResult{FinalScores: []int{0, 40}}, 0)
	require.Greater(t, buf.Len(), before)
}

func TestRLStrategySatisfiesStrategyInterface(t *testing.T) {
	var _ strategy.Strategy = NewRLStrategy(NewPolicy(qnet.New(1), 1), nil)
}
