package drl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
)

func TestTerminalRewardRanksFirstHighest(t *testing.T) {
	scores := []int{5, 40, 60, 80} // player 0 has the lowest score: rank 1
	r0 := TerminalReward(state.DecisionPlayType, scores, 0)
	r1 := TerminalReward(state.DecisionPlayType, scores, 1)
	r3 := TerminalReward(state.DecisionPlayType, scores, 3)
	assert.Greater(t, r0, r1)
	assert.Greater(t, r1, r3)
}

func TestTerminalRewardZapZapDoubledOnWin(t *testing.T) {
	scores := []int{0, 50, 50}
	playType := TerminalReward(state.DecisionPlayType, scores, 0)
	zapZap := TerminalReward(state.DecisionZapZap, scores, 0)
	assert.InDelta(t, playType*2, zapZap, 1e-9)
}

func TestIntermediatePlayRewardRewardsValueAndSizeReduction(t *testing.T) {
	before := cards.Hand{cards.Card(0), cards.Card(12), cards.Card(25)} // ace + two kings
	after := cards.Hand{cards.Card(0)}
	reward := IntermediatePlayReward(before, after)
	assert.Greater(t, reward, 0.0)
}

func TestIntermediatePlayRewardBonusOnEnteringZapZapRange(t *testing.T) {
	// Before: two kings + a two (value 28, not eligible). After playing
	// both kings, only the two (value 2) remains: eligible.
	before := cards.Hand{cards.Card(12), cards.Card(25), cards.Card(1)}
	after := cards.Hand{cards.Card(1)}
	reward := IntermediatePlayReward(before, after)
	assert.Greater(t, reward, IntermediatePlayBonus)
}
