package strategy

import (
	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
)

// ThibotWeights tunes the probability-tracking bot's scoring terms.
type ThibotWeights struct {
	ValueRemovedWeight   float64
	CardCountWeight      float64
	ComboPotentialWeight float64
	JokerPlayPenalty     float64
	ZapZapProximityBonus float64
	FutureValueDiscount  float64
	CoordinationThreshold float64
}

// DefaultThibotWeights is the hand-tuned baseline.
func DefaultThibotWeights() ThibotWeights {
	return ThibotWeights{
		ValueRemovedWeight:    1.0,
		CardCountWeight:       0.4,
		ComboPotentialWeight:  0.8,
		JokerPlayPenalty:      2.0,
		ZapZapProximityBonus:  1.5,
		FutureValueDiscount:   0.7,
		CoordinationThreshold: 1.0,
	}
}

// Thibot tracks every card that has become visible (buried in discard,
// face-up in last_cards_played, or played this turn) plus, per opponent,
// the cards it can infer they picked up from the played pile. It uses
// these counts to reason about which ranks remain drawable, and plans
// one turn ahead: play now, draw a specific card, then play a larger
// combo next turn, taking that plan over the greedy one when the gain
// clears a configurable threshold (§4.3).
type Thibot struct {
	BaseStrategy
	Weights ThibotWeights

	knownInHand    []map[cards.Card]bool // per opponent index
	prevHandSizes  []int
	prevLastPlayed cards.Hand
	initialized    bool

	plannedDraw cards.Card
	hasPlan     bool
}

// NewThibot returns a Thibot strategy with the given weights.
func NewThibot(w ThibotWeights) *Thibot {
	return &Thibot{Weights: w}
}

func (t *Thibot) observe(s state.GameState, myIndex int) {
	n := s.NumPlayers()
	if !t.initialized {
		t.knownInHand = make([]map[cards.Card]bool, n)
		for i := range t.knownInHand {
			t.knownInHand[i] = make(map[cards.Card]bool)
		}
		t.prevHandSizes = make([]int, n)
		for i, h := range s.Hands {
			t.prevHandSizes[i] = len(h)
		}
		t.prevLastPlayed = s.LastCardsPlayed.Clone()
		t.initialized = true
		return
	}

	missing := t.prevLastPlayed.Without(s.LastCardsPlayed)
	grew := -1
	for i, h := range s.Hands {
		if i == myIndex {
			continue
		}
		if len(h) > t.prevHandSizes[i] {
			grew = i
		}
	}
	if grew != -1 {
		for _, c := range missing {
			t.knownInHand[grew][c] = true
		}
	}

	// Any card a tracked opponent has since played is no longer "in
	// hand": it has become visible via cards_played/discard instead.
	for i := range t.knownInHand {
		for c := range t.knownInHand[i] {
			if s.CardsPlayed.Contains(cards.Hand{c}) || s.DiscardPile.Contains(cards.Hand{c}) {
				delete(t.knownInHand[i], c)
			}
		}
	}

	t.prevHandSizes = make([]int, n)
	for i, h := range s.Hands {
		t.prevHandSizes[i] = len(h)
	}
	t.prevLastPlayed = s.LastCardsPlayed.Clone()
}

// visibleCount returns, for each rank, how many cards of that rank are
// accounted for (visible piles plus inferred opponent holdings), so the
// drawable remainder is NumSuits minus this count (NumSuits*... jokers
// handled separately since they share no rank).
func (t *Thibot) visibleCount(s state.GameState) map[cards.Rank]int {
	counts := make(map[cards.Rank]int)
	add := func(h cards.Hand) {
		for _, c := range h {
			if !c.IsJoker() {
				counts[c.Rank()]++
			}
		}
	}
	add(s.DiscardPile)
	add(s.LastCardsPlayed)
	add(s.CardsPlayed)
	for _, known := range t.knownInHand {
		for c := range known {
			if !c.IsJoker() {
				counts[c.Rank()]++
			}
		}
	}
	return counts
}

func (t *Thibot) comboPotential(hand cards.Hand, card cards.Card) float64 {
	score := 0.0
	if analyzer.WouldCompletePair(hand, card) {
		score++
	}
	if analyzer.WouldCompleteSequence(hand, card) {
		score++
	}
	return score
}

func (t *Thibot) SelectHandSize(activeCount int, isGoldenScore bool) int {
	if isGoldenScore {
		return 10
	}
	return 7
}

func (t *Thibot) ShouldZapZap(hand cards.Hand, s state.GameState) bool {
	t.observe(s, s.CurrentTurn)
	return analyzer.CalculateHandValue(hand, false) <= 3
}

// residualPotential sums the leftover hand's combo potential, scaling
// each card's contribution by how many copies of its rank remain
// unaccounted for: a near-complete pair that the tracker believes is
// already buried elsewhere is worth less than one with copies still
// live in the deck.
func (t *Thibot) residualPotential(leftover cards.Hand, s state.GameState) float64 {
	visible := t.visibleCount(s)
	total := 0.0
	for _, c := range leftover {
		if c.IsJoker() {
			total += t.comboPotential(leftover.Without(cards.Hand{c}), c)
			continue
		}
		remaining := cards.NumSuits - visible[c.Rank()]
		if remaining <= 0 {
			continue
		}
		total += float64(remaining) / float64(cards.NumSuits) * t.comboPotential(leftover.Without(cards.Hand{c}), c)
	}
	return total
}

func (t *Thibot) scorePlay(hand, play cards.Hand, s state.GameState) float64 {
	w := t.Weights
	leftover := hand.Without(play)
	valueRemoved := analyzer.CalculateHandValue(play, true)
	score := w.ValueRemovedWeight*float64(valueRemoved) + w.CardCountWeight*float64(len(play))

	score += w.ComboPotentialWeight * t.residualPotential(leftover, s)

	for _, c := range play {
		if c.IsJoker() {
			score -= w.JokerPlayPenalty
		}
	}

	if analyzer.CalculateHandValue(leftover, false) <= 5 {
		score += w.ZapZapProximityBonus
	}
	return score
}

func (t *Thibot) SelectPlay(hand cards.Hand, s state.GameState) cards.Hand {
	t.observe(s, s.CurrentTurn)
	t.hasPlan = false

	plays := analyzer.FindAllValidPlays(hand)
	if len(plays) == 0 {
		return nil
	}

	var best cards.Hand
	bestScore := negInf
	for _, play := range plays {
		sc := t.scorePlay(hand, play, s)
		if sc > bestScore {
			bestScore = sc
			best = play
		}
	}

	// Coordinated lookahead: for each candidate draw available right
	// now in last_cards_played, estimate "play a smaller combo now,
	// pick up that card, play a bigger combo next turn" and prefer it
	// if the discounted gain clears the threshold.
	w := t.Weights
	for _, candidate := range s.LastCardsPlayed {
		afterDraw := hand.With(candidate)
		nextPlays := analyzer.FindAllValidPlays(afterDraw)
		bestNext := negInf
		var bestNextPlay cards.Hand
		for _, np := range nextPlays {
			sc := t.scorePlay(afterDraw, np, s)
			if sc > bestNext {
				bestNext = sc
				bestNextPlay = np
			}
		}
		if bestNextPlay == nil {
			continue
		}
		// Smallest valid play now (to preserve the rest of the hand for
		// the coordinated follow-up).
		smallestNow := smallestPlay(plays)
		gain := t.scorePlay(hand, smallestNow, s) + w.FutureValueDiscount*bestNext - bestScore
		if gain > w.CoordinationThreshold {
			best = smallestNow
			bestScore = t.scorePlay(hand, smallestNow, s)
			t.plannedDraw = candidate
			t.hasPlan = true
		}
	}

	return best
}

func smallestPlay(plays []cards.Hand) cards.Hand {
	best := plays[0]
	for _, p := range plays[1:] {
		if len(p) < len(best) {
			best = p
		}
	}
	return best
}

func (t *Thibot) SelectDrawSource(hand, lastCardsPlayed cards.Hand, s state.GameState) state.DrawSource {
	t.observe(s, s.CurrentTurn)
	if t.hasPlan {
		for _, c := range lastCardsPlayed {
			if c == t.plannedDraw {
				return state.DrawFromPlayed
			}
		}
	}
	if len(lastCardsPlayed) == 0 {
		return state.DrawFromDeck
	}
	top := lastCardsPlayed[len(lastCardsPlayed)-1]
	if t.comboPotential(hand, top) > 0 {
		return state.DrawFromPlayed
	}
	return state.DrawFromDeck
}

func (t *Thibot) OnGameEnd(result GameResult, myIndex int) {
	t.initialized = false
	t.hasPlan = false
}
