// Package strategy defines the common bot interface and the catalog of
// heuristic strategies (§4.3): Easy/Medium/Hard baselines, the tunable
// HardVince, and the probability-tracking Thibot.
package strategy

import (
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
)

// GameResult is passed to on_game_end so a strategy can update
// across-game learned state (e.g. a genetic individual's running
// stats). It intentionally carries no pointer back into engine state
// (§9's design note: strategies receive data by value, never a handle
// into the engine).
type GameResult struct {
	Winner         int
	FinalScores    []int
	Rounds         int
	WasGoldenScore bool
}

// Strategy is the per-player decision surface. Implementations hold
// their own per-round memory (e.g. seen cards) and any across-game
// learned parameters; the engine never reaches into a strategy's
// internals.
type Strategy interface {
	// SelectHandSize is asked of the round's starting player only.
	// Engine clamps the result to [4, golden ? 10 : 7].
	SelectHandSize(activeCount int, isGoldenScore bool) int

	// ShouldZapZap is only invoked when CanCallZapZap(hand) already
	// holds; returning true ends the round via ZapZap resolution.
	ShouldZapZap(hand cards.Hand, s state.GameState) bool

	// SelectPlay returns a non-empty subset of hand to play, or nil to
	// signal "no preference" (the engine substitutes a deterministic
	// fallback). A returned play containing cards not in hand, or not
	// matching a valid play shape, is treated the same as nil.
	SelectPlay(hand cards.Hand, s state.GameState) cards.Hand

	// SelectDrawSource chooses where to draw from after playing.
	SelectDrawSource(hand cards.Hand, lastCardsPlayed cards.Hand, s state.GameState) state.DrawSource

	// OnGameEnd is an optional hook; strategies with nothing to learn
	// may implement it as a no-op.
	OnGameEnd(result GameResult, myIndex int)
}

// BaseStrategy is embedded by strategies that don't need OnGameEnd,
// so they aren't forced to write a no-op method themselves.
type BaseStrategy struct{}

func (BaseStrategy) OnGameEnd(GameResult, int) {}
