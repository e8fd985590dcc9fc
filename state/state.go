// Package state defines the immutable GameState value object and the
// small closed set of tagged types (game phase, RL decision type,
// transition record) that flow between the engine, the strategies, and
// the training stack. Every update produces a new value: no method on
// GameState mutates its receiver.
package state

import "github.com/zapzap/zapzap/cards"

// Phase is the engine's current_action: a closed enum, never a string
// (per the base spec's design note against dynamic typing in action
// spaces).
type Phase uint8

const (
	PhaseSelectHandSize Phase = iota
	PhasePlay
	PhaseDraw
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectHandSize:
		return "select_hand_size"
	case PhasePlay:
		return "play"
	case PhaseDraw:
		return "draw"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// DrawSource is the result of select_draw_source.
type DrawSource uint8

const (
	DrawFromDeck DrawSource = iota
	DrawFromPlayed
)

// DecisionType identifies which of the four independent decision heads
// a Transition belongs to (§4.6). Each has its own Markov chain.
type DecisionType uint8

const (
	DecisionHandSize DecisionType = iota
	DecisionZapZap
	DecisionPlayType
	DecisionDrawSource
	NumDecisionTypes
)

// ActionCount is the closed action-space size for each decision head.
func (d DecisionType) ActionCount() int {
	switch d {
	case DecisionHandSize:
		return 7 // hand sizes 4..10
	case DecisionZapZap:
		return 2 // {don't call, call}
	case DecisionPlayType:
		return 5 // {single, set, run, multi-combo, pass-to-fallback}
	case DecisionDrawSource:
		return 2 // {deck, played}
	}
	return 0
}

// GameState is the immutable value object the engine advances. Every
// GameState returned by a With* method (or by the engine) is a fresh
// value; no method mutates its receiver's slices in place.
type GameState struct {
	Deck             cards.Hand // top of deck = last element
	Hands            []cards.Hand
	DiscardPile      cards.Hand
	LastCardsPlayed  cards.Hand
	CardsPlayed      cards.Hand
	Scores           []int
	Eliminated       []bool
	CurrentTurn      int
	CurrentAction    Phase
	RoundNumber      int
	IsGoldenScore    bool
}

// NumPlayers returns the number of seats (active + eliminated).
func (s GameState) NumPlayers() int { return len(s.Hands) }

// ActiveCount returns the number of non-eliminated players.
func (s GameState) ActiveCount() int {
	n := 0
	for _, e := range s.Eliminated {
		if !e {
			n++
		}
	}
	return n
}

// IsActive reports whether player p is not eliminated.
func (s GameState) IsActive(p int) bool {
	return p >= 0 && p < len(s.Eliminated) && !s.Eliminated[p]
}

// clone returns a deep, independent copy of s suitable as the base for
// a With* update.
func (s GameState) clone() GameState {
	out := s
	out.Deck = s.Deck.Clone()
	out.Hands = make([]cards.Hand, len(s.Hands))
	for i, h := range s.Hands {
		out.Hands[i] = h.Clone()
	}
	out.DiscardPile = s.DiscardPile.Clone()
	out.LastCardsPlayed = s.LastCardsPlayed.Clone()
	out.CardsPlayed = s.CardsPlayed.Clone()
	out.Scores = append([]int(nil), s.Scores...)
	out.Eliminated = append([]bool(nil), s.Eliminated...)
	return out
}

// WithHand returns a copy of s with player p's hand replaced.
func (s GameState) WithHand(p int, h cards.Hand) GameState {
	out := s.clone()
	out.Hands[p] = h
	return out
}

// WithPiles returns a copy of s with the discard/last-played/current-play
// piles replaced.
func (s GameState) WithPiles(discard, lastPlayed, curPlay cards.Hand) GameState {
	out := s.clone()
	out.DiscardPile = discard
	out.LastCardsPlayed = lastPlayed
	out.CardsPlayed = curPlay
	return out
}

// WithDeck returns a copy of s with the deck replaced.
func (s GameState) WithDeck(d cards.Hand) GameState {
	out := s.clone()
	out.Deck = d
	return out
}

// WithTurn returns a copy of s with current_turn/current_action
// advanced; cards_played is left unchanged.
func (s GameState) WithTurn(turn int, action Phase) GameState {
	out := s.clone()
	out.CurrentTurn = turn
	out.CurrentAction = action
	return out
}

// WithScores returns a copy of s with scores/eliminated/golden-score/round
// updated for a new round.
func (s GameState) WithScores(scores []int, eliminated []bool, golden bool, round int) GameState {
	out := s.clone()
	out.Scores = append([]int(nil), scores...)
	out.Eliminated = append([]bool(nil), eliminated...)
	out.IsGoldenScore = golden
	out.RoundNumber = round
	return out
}

// Transition is one recorded (state, action, reward) step for a single
// decision head, per §3. NextStateVector is filled in once the same
// head's next invocation produces a feature vector (decision types have
// independent Markov chains).
type Transition struct {
	DecisionType    DecisionType
	StateVector     []float64
	ActionIndex     int
	Reward          float64
	NextStateVector []float64
	Done            bool
}
