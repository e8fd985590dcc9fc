package drl

import (
	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
)

// HeadRewardScale is the per-head multiplier applied to the terminal
// reward before it is recorded into that head's transitions.
var HeadRewardScale = map[state.DecisionType]float64{
	state.DecisionHandSize:   0.5,
	state.DecisionZapZap:     1.0, // doubled separately on a win, see TerminalReward
	state.DecisionDrawSource: 0.6,
	state.DecisionPlayType:   1.0,
}

// IntermediatePlayBonus is added on the turn a play brings the hand's
// eligibility value into ZapZap-call range.
const IntermediatePlayBonus = 0.2

// rankReward maps a finishing rank (1-indexed) to the base terminal
// reward for a player in a game of any size >= 2.
func rankReward(rank, numPlayers int) float64 {
	switch {
	case rank == 1:
		return 1.0
	case rank == 2:
		return 0.2
	case rank == numPlayers:
		return -1.0
	default:
		return -0.5
	}
}

// TerminalReward computes the final-rank reward for decision type d,
// combining the rank-based term with a score-relative term and scaling
// it per head. scores is the final score table, myIndex this player's
// seat.
func TerminalReward(d state.DecisionType, scores []int, myIndex int) float64 {
	mine := float64(scores[myIndex])

	rank := 1
	sumOpp, minOpp, maxOpp := 0.0, 0.0, 0.0
	first := true
	for i, sc := range scores {
		if i == myIndex {
			continue
		}
		f := float64(sc)
		sumOpp += f
		if first || f < minOpp {
			minOpp = f
		}
		if first || f > maxOpp {
			maxOpp = f
		}
		first = false
		if sc < scores[myIndex] {
			rank++
		}
	}

	base := rankReward(rank, len(scores))

	scoreRelative := 0.0
	if n := len(scores) - 1; n > 0 {
		avgOpp := sumOpp / float64(n)
		spread := maxOpp - minOpp
		if spread != 0 {
			scoreRelative = (avgOpp - mine) / spread
		}
	}

	dominance := 0.0
	if mine <= minOpp {
		dominance = 0.3
	} else if mine >= maxOpp {
		dominance = -0.3
	}

	reward := base + scoreRelative + dominance

	scale := HeadRewardScale[d]
	if d == state.DecisionZapZap && rank == 1 {
		scale *= 2
	}
	return reward * scale
}

// IntermediatePlayReward scores a play/draw step by hand-value and
// hand-size reduction, plus a bonus for entering ZapZap-call range.
func IntermediatePlayReward(before, after cards.Hand) float64 {
	beforeValue := analyzer.CalculateHandValue(before, false)
	afterValue := analyzer.CalculateHandValue(after, false)
	valueDelta := float64(beforeValue-afterValue) / 25.0

	sizeDelta := float64(len(before)-len(after)) / float64(len(before)+1)

	reward := valueDelta + sizeDelta
	if !analyzer.CanCallZapZap(before) && analyzer.CanCallZapZap(after) {
		reward += IntermediatePlayBonus
	}
	return reward
}
