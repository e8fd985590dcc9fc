// Package engine runs ZapZap rounds and games as a deterministic,
// synchronous state machine (§4.2). Given a seed and a strategy list,
// RunGame's outcome is fully reproducible.
package engine

import (
	"fmt"
	"math/rand"

	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
	"github.com/zapzap/zapzap/strategy"
)

// MaxScoreBeforeElimination is the cumulative penalty threshold above
// which a player is eliminated (§4.2 end-of-round).
const MaxScoreBeforeElimination = 100

// TurnSafetyCap bounds the number of turns in a single round as a
// crash-avoidance net (§7); tests must show it is never hit in normal
// play.
const TurnSafetyCap = 1000

// CounteractionBonusPerOpponent is the per-opponent ZapZap counteraction
// penalty multiplier (§4.2: caller_penalty + 5*(active-1)).
const CounteractionBonusPerOpponent = 5

// GameMetrics mirrors the teacher's per-game instrumentation counters
// (decision/interaction counts), surfaced for observability without
// becoming a persisted audit log.
type GameMetrics struct {
	TotalDecisions  int
	ForcedDecisions int
	ZapZapCalls     int
	// CounteractedCallsBySeat counts, per seat, how many of that seat's
	// ZapZap calls were counteracted (the caller paid the penalty
	// instead of an opponent), feeding the genetic optimizer's
	// "defensive" fitness style.
	CounteractedCallsBySeat []int
}

// GameResult is the outcome of a complete game (§6 Engine API).
type GameResult struct {
	Winner         int
	FinalScores    []int
	Rounds         int
	WasGoldenScore bool
	Eliminated     []int
	Metrics        GameMetrics
}

// RoundResult summarizes a single round's outcome, used by callers
// (e.g. the orchestrator) that want per-round transitions.
type RoundResult struct {
	ZapZapCaller    int
	Counteracted    bool
	PenaltyDeltas   []int
	WasGoldenBefore bool
}

// ErrInvariantViolation is raised (as a panic, per §7's "must abort the
// game deterministically" policy: this is the one error kind that is
// never silently recovered) when the card-multiset invariant fails.
type ErrInvariantViolation struct {
	Detail string
}

func (e ErrInvariantViolation) Error() string {
	return fmt.Sprintf("zapzap: card multiset invariant violated: %s", e.Detail)
}

// RunGame plays a complete game to conclusion: at most one active
// player remains, or (in golden score) the two active players finish a
// round with different scores.
func RunGame(strategies []strategy.Strategy, seed int64) (GameResult, error) {
	n := len(strategies)
	if n < 2 || n > 4 {
		return GameResult{}, fmt.Errorf("zapzap: strategies count must be 2-4, got %d", n)
	}

	rng := rand.New(rand.NewSource(seed))

	s := state.GameState{
		Hands:      make([]cards.Hand, n),
		Scores:     make([]int, n),
		Eliminated: make([]bool, n),
		RoundNumber: 0,
	}
	starter := 0
	var metrics GameMetrics

	for {
		s.RoundNumber++
		var round RoundResult
		var err error
		s, round, metrics, err = runRound(s, strategies, starter, rng, metrics)
		if err != nil {
			return GameResult{}, err
		}
		_ = round

		// End-of-round elimination check.
		for i := 0; i < n; i++ {
			if !s.Eliminated[i] && s.Scores[i] > MaxScoreBeforeElimination {
				s.Eliminated[i] = true
			}
		}

		active := activeIndices(s.Eliminated)
		wasGolden := s.IsGoldenScore
		s.IsGoldenScore = len(active) == 2

		if len(active) <= 1 || (wasGolden && len(active) == 2 && s.Scores[active[0]] != s.Scores[active[1]]) {
			return finish(s, strategies, metrics), nil
		}

		// Rotate starter to the next non-eliminated player.
		starter = nextActive(starter, s.Eliminated)
	}
}

func finish(s state.GameState, strategies []strategy.Strategy, metrics GameMetrics) GameResult {
	active := activeIndices(s.Eliminated)
	if len(active) == 0 {
		// Every remaining player was eliminated in the same round: the
		// winner is the lowest score among all seats.
		for i := range s.Eliminated {
			active = append(active, i)
		}
	}
	var winner int
	if len(active) == 1 {
		winner = active[0]
	} else {
		winner = active[0]
		for _, i := range active[1:] {
			if s.Scores[i] < s.Scores[winner] {
				winner = i
			}
		}
	}

	var eliminated []int
	for i, e := range s.Eliminated {
		if e {
			eliminated = append(eliminated, i)
		}
	}

	result := GameResult{
		Winner:         winner,
		FinalScores:    append([]int(nil), s.Scores...),
		Rounds:         s.RoundNumber,
		WasGoldenScore: s.IsGoldenScore,
		Eliminated:     eliminated,
		Metrics:        metrics,
	}

	for i, strat := range strategies {
		strat.OnGameEnd(strategy.GameResult{
			Winner:         winner,
			FinalScores:    result.FinalScores,
			Rounds:         result.Rounds,
			WasGoldenScore: result.WasGoldenScore,
		}, i)
	}
	return result
}

func activeIndices(eliminated []bool) []int {
	var out []int
	for i, e := range eliminated {
		if !e {
			out = append(out, i)
		}
	}
	return out
}

func nextActive(from int, eliminated []bool) int {
	n := len(eliminated)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if !eliminated[idx] {
			return idx
		}
	}
	return from
}

// runRound deals a fresh round and runs the turn loop to completion
// (ZapZap call, or the turn-count safety cap).
func runRound(s state.GameState, strategies []strategy.Strategy, starter int, rng *rand.Rand, metrics GameMetrics) (state.GameState, RoundResult, GameMetrics, error) {
	n := len(strategies)
	golden := s.IsGoldenScore
	maxHand := 7
	if golden {
		maxHand = 10
	}

	chosen := strategies[starter].SelectHandSize(len(activeIndices(s.Eliminated)), golden)
	handSize := clamp(chosen, 4, maxHand)

	deck := shuffledDeck(rng)
	hands := make([]cards.Hand, n)
	for i := range hands {
		if s.Eliminated[i] {
			hands[i] = cards.Hand{}
			continue
		}
		hands[i] = deck[:handSize]
		deck = deck[handSize:]
	}

	var lastPlayed cards.Hand
	if len(deck) > 0 {
		lastPlayed = cards.Hand{deck[len(deck)-1]}
		deck = deck[:len(deck)-1]
	}

	s = state.GameState{
		Deck:            deck,
		Hands:           hands,
		DiscardPile:     cards.Hand{},
		LastCardsPlayed: lastPlayed,
		CardsPlayed:     cards.Hand{},
		Scores:          s.Scores,
		Eliminated:      s.Eliminated,
		CurrentTurn:     starter,
		CurrentAction:   state.PhasePlay,
		RoundNumber:     s.RoundNumber,
		IsGoldenScore:   golden,
	}

	checkInvariant(s)

	firstPlayOfRound := true
	turns := 0
	for {
		turns++
		if turns > TurnSafetyCap {
			// Crash-avoidance net: resolve as if every active player
			// counteracted the current player (§7).
			result := forceZapZapAll(s, n)
			return applyZapZap(s, result), result, metrics, nil
		}

		p := s.CurrentTurn
		hand := s.Hands[p]

		if analyzer.CanCallZapZap(hand) && strategies[p].ShouldZapZap(hand, s) {
			metrics.ZapZapCalls++
			round := resolveZapZap(s, p)
			if round.Counteracted {
				if metrics.CounteractedCallsBySeat == nil {
					metrics.CounteractedCallsBySeat = make([]int, n)
				}
				metrics.CounteractedCallsBySeat[p]++
			}
			return applyZapZap(s, round), round, metrics, nil
		}

		play := strategies[p].SelectPlay(hand, s)
		if !validPlayFromHand(hand, play) {
			play = fallbackPlay(hand)
		}
		metrics.TotalDecisions++
		if len(analyzer.FindAllValidPlays(hand)) == 1 {
			metrics.ForcedDecisions++
		}

		newHand := hand.Without(play)
		var discard, newLast, newCurPlay cards.Hand
		if firstPlayOfRound {
			newLast = s.LastCardsPlayed
			newCurPlay = play
			discard = s.DiscardPile
			firstPlayOfRound = false
		} else {
			discard = s.DiscardPile.With(s.LastCardsPlayed...)
			newLast = s.CardsPlayed
			newCurPlay = play
		}

		s = s.WithHand(p, newHand)
		s = s.WithPiles(discard, newLast, newCurPlay)

		checkInvariant(s)

		source := strategies[p].SelectDrawSource(s.Hands[p], s.LastCardsPlayed, s)
		s = applyDraw(s, p, source, rng)

		checkInvariant(s)

		next := nextActive(p, s.Eliminated)
		s = s.WithTurn(next, state.PhasePlay)
	}
}

func applyDraw(s state.GameState, p int, source state.DrawSource, rng *rand.Rand) state.GameState {
	if source == state.DrawFromPlayed {
		if len(s.LastCardsPlayed) == 0 {
			source = state.DrawFromDeck
		} else {
			card := s.LastCardsPlayed[len(s.LastCardsPlayed)-1]
			newLast := s.LastCardsPlayed[:len(s.LastCardsPlayed)-1]
			s = s.WithPiles(s.DiscardPile, newLast, s.CardsPlayed)
			s = s.WithHand(p, s.Hands[p].With(card))
			return s
		}
	}

	deck := s.Deck
	if len(deck) == 0 {
		if len(s.DiscardPile) == 0 {
			return s // both empty: skip the draw
		}
		deck = reshuffle(s.DiscardPile, rng)
		s = s.WithPiles(cards.Hand{}, s.LastCardsPlayed, s.CardsPlayed)
		s = s.WithDeck(deck)
		deck = s.Deck
	}
	card := deck[len(deck)-1]
	s = s.WithDeck(deck[:len(deck)-1])
	s = s.WithHand(p, s.Hands[p].With(card))
	return s
}

func reshuffle(pile cards.Hand, rng *rand.Rand) cards.Hand {
	out := pile.Clone()
	fisherYates(out, rng)
	return out
}

func shuffledDeck(rng *rand.Rand) cards.Hand {
	deck := cards.NewDeck()
	fisherYates(deck, rng)
	return deck
}

func fisherYates(h cards.Hand, rng *rand.Rand) {
	for i := len(h) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		h[i], h[j] = h[j], h[i]
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// validPlayFromHand reports whether play is non-empty, every card is in
// hand, and the shape is a valid single/set/run.
func validPlayFromHand(hand, play cards.Hand) bool {
	if len(play) == 0 {
		return false
	}
	if !hand.Contains(play) {
		return false
	}
	return analyzer.IsValidPlay(play)
}

// fallbackPlay deterministically picks the lowest-id single card, per
// §4.2's "invalid strategy output is coerced" policy.
func fallbackPlay(hand cards.Hand) cards.Hand {
	sorted := hand.Sorted()
	return cards.Hand{sorted[0]}
}

// resolveZapZap computes the ZapZap outcome for caller c (§4.2).
func resolveZapZap(s state.GameState, caller int) RoundResult {
	n := len(s.Hands)
	active := activeIndices(s.Eliminated)

	eligibility := make(map[int]int, len(active))
	penalty := make(map[int]int, len(active))
	minEligibility := 1 << 30
	for _, p := range active {
		eligibility[p] = analyzer.CalculateHandValue(s.Hands[p], false)
		penalty[p] = analyzer.CalculateHandValue(s.Hands[p], true)
		if eligibility[p] < minEligibility {
			minEligibility = eligibility[p]
		}
	}

	deltas := make([]int, n)
	counteracted := false
	for _, p := range active {
		if p == caller {
			continue
		}
		if eligibility[p] <= eligibility[caller] {
			counteracted = true
		}
	}

	if counteracted {
		for _, p := range active {
			if p == caller {
				deltas[p] = penalty[caller] + CounteractionBonusPerOpponent*(len(active)-1)
				continue
			}
			if eligibility[p] == minEligibility {
				deltas[p] = 0
			} else {
				deltas[p] = penalty[p]
			}
		}
	} else {
		for _, p := range active {
			if p == caller {
				deltas[p] = 0
			} else {
				deltas[p] = penalty[p]
			}
		}
	}

	return RoundResult{
		ZapZapCaller:  caller,
		Counteracted:  counteracted,
		PenaltyDeltas: deltas,
	}
}

// forceZapZapAll is the turn-count-overflow fallback (§7): resolved as
// if every active player counteracted the current player.
func forceZapZapAll(s state.GameState, n int) RoundResult {
	active := activeIndices(s.Eliminated)
	deltas := make([]int, n)
	caller := s.CurrentTurn
	for _, p := range active {
		if p == caller {
			continue
		}
		deltas[p] = analyzer.CalculateHandValue(s.Hands[p], true)
	}
	deltas[caller] = analyzer.CalculateHandValue(s.Hands[caller], true) + CounteractionBonusPerOpponent*(len(active)-1)
	return RoundResult{ZapZapCaller: caller, Counteracted: true, PenaltyDeltas: deltas}
}

func applyZapZap(s state.GameState, round RoundResult) state.GameState {
	newScores := append([]int(nil), s.Scores...)
	for i, d := range round.PenaltyDeltas {
		newScores[i] += d
	}
	return s.WithScores(newScores, s.Eliminated, s.IsGoldenScore, s.RoundNumber)
}

// checkInvariant verifies the full 54-card multiset is exactly
// accounted for across deck/hands/discard/last-played/current-play. A
// violation is a bug: it panics rather than silently recovering (§7).
func checkInvariant(s state.GameState) {
	seen := make(map[cards.Card]int, cards.NumCards)
	add := func(h cards.Hand) {
		for _, c := range h {
			seen[c]++
		}
	}
	add(s.Deck)
	for _, h := range s.Hands {
		add(h)
	}
	add(s.DiscardPile)
	add(s.LastCardsPlayed)
	add(s.CardsPlayed)

	for c := cards.Card(0); c < cards.NumCards; c++ {
		if seen[c] != 1 {
			panic(ErrInvariantViolation{Detail: fmt.Sprintf("card %v appears %d times, want 1", c, seen[c])})
		}
	}
}
