package strategy

import (
	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
)

// Hard extends Medium's play/draw logic with opponent awareness: it
// refuses to ZapZap while any opponent's hand is small enough to plausibly
// counteract, and prefers a drawn card from the played pile over the deck
// more aggressively as the round number grows.
type Hard struct {
	BaseStrategy
}

func (Hard) SelectHandSize(activeCount int, isGoldenScore bool) int {
	if isGoldenScore {
		return 10
	}
	return 7
}

func (Hard) ShouldZapZap(hand cards.Hand, s state.GameState) bool {
	myValue := analyzer.CalculateHandValue(hand, false)
	if myValue > 5 {
		return false
	}
	minOpponent := minOpponentHandSize(s)
	// Small opponent hands are more likely to hold a low-value hand too;
	// require strict safety margin against them.
	if minOpponent <= 3 && myValue > 1 {
		return false
	}
	return myValue <= 3
}

func (Hard) SelectPlay(hand cards.Hand, s state.GameState) cards.Hand {
	return analyzer.FindMaxPointPlay(hand)
}

func (Hard) SelectDrawSource(hand, lastCardsPlayed cards.Hand, s state.GameState) state.DrawSource {
	if len(lastCardsPlayed) == 0 {
		return state.DrawFromDeck
	}
	top := lastCardsPlayed[len(lastCardsPlayed)-1]
	wouldHelp := analyzer.WouldCompletePair(hand, top) || analyzer.WouldCompleteSequence(hand, top)
	lowValue := top.Points() <= 3
	if wouldHelp || (s.RoundNumber > 2 && lowValue) {
		return state.DrawFromPlayed
	}
	return state.DrawFromDeck
}

func minOpponentHandSize(s state.GameState) int {
	min := -1
	for i, h := range s.Hands {
		if !s.IsActive(i) || i == s.CurrentTurn {
			continue
		}
		if min == -1 || len(h) < min {
			min = len(h)
		}
	}
	if min == -1 {
		return 0
	}
	return min
}
