package strategy

import (
	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
)

// Medium always plays the hand-value-maximizing play and draws from the
// played pile whenever it would complete a pair or sequence; otherwise
// it draws from the deck. It calls ZapZap once its eligibility value
// reaches 2 or below, accepting the counteraction risk below that.
type Medium struct {
	BaseStrategy
}

func (Medium) SelectHandSize(activeCount int, isGoldenScore bool) int {
	if isGoldenScore {
		return 9
	}
	return 7
}

func (Medium) ShouldZapZap(hand cards.Hand, s state.GameState) bool {
	return analyzer.CalculateHandValue(hand, false) <= 2
}

func (Medium) SelectPlay(hand cards.Hand, s state.GameState) cards.Hand {
	return analyzer.FindMaxPointPlay(hand)
}

func (Medium) SelectDrawSource(hand, lastCardsPlayed cards.Hand, s state.GameState) state.DrawSource {
	if len(lastCardsPlayed) == 0 {
		return state.DrawFromDeck
	}
	top := lastCardsPlayed[len(lastCardsPlayed)-1]
	if analyzer.WouldCompletePair(hand, top) || analyzer.WouldCompleteSequence(hand, top) {
		return state.DrawFromPlayed
	}
	return state.DrawFromDeck
}
