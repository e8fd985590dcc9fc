package strategy

import (
	"math/rand"

	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
)

// Easy plays a uniformly random valid play and draws from the deck
// unconditionally. It calls ZapZap the instant it is eligible. Useful as
// a bottom-rung opponent and a baseline for win-rate comparisons.
type Easy struct {
	BaseStrategy
	RNG *rand.Rand
}

// NewEasy returns an Easy strategy with its own RNG derived from seed.
func NewEasy(seed int64) *Easy {
	return &Easy{RNG: rand.New(rand.NewSource(seed))}
}

func (e *Easy) SelectHandSize(activeCount int, isGoldenScore bool) int {
	if isGoldenScore {
		return 10
	}
	return 7
}

func (e *Easy) ShouldZapZap(hand cards.Hand, s state.GameState) bool {
	return true
}

func (e *Easy) SelectPlay(hand cards.Hand, s state.GameState) cards.Hand {
	plays := analyzer.FindAllValidPlays(hand)
	if len(plays) == 0 {
		return nil
	}
	return plays[e.RNG.Intn(len(plays))]
}

func (e *Easy) SelectDrawSource(hand, lastCardsPlayed cards.Hand, s state.GameState) state.DrawSource {
	return state.DrawFromDeck
}
