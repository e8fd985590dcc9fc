package orchestrator

import (
	"sort"

	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/drl"
	"github.com/zapzap/zapzap/engine"
	"github.com/zapzap/zapzap/feature"
	"github.com/zapzap/zapzap/state"
	"github.com/zapzap/zapzap/strategy"
)

// ImitationFraction is the share of the central buffer's capacity the
// pre-fill pass is allowed to occupy per head (§4.8: "fill up to 30% of
// the buffer with the highest-reward transitions").
const ImitationFraction = 0.30

// ImitationOpponents is how many HardVince copies play each other
// during pre-fill, one of which is wrapped to record transitions.
const ImitationOpponents = 4

// imitationPending mirrors drl's pendingTransition bookkeeping: a
// head's in-flight (state, action) pair waiting on that head's next
// invocation to supply next_state.
type imitationPending struct {
	stateVector []float64
	actionIndex int
	reward      float64
}

// ImitationStrategy wraps a HardVince copy, classifying its concrete
// decisions into the same discrete action spaces the DRL heads use and
// recording the result as transitions, so the replay buffer can be
// pre-filled with expert play before any self-play has happened.
type ImitationStrategy struct {
	Vince *strategy.HardVince
	Sink  drl.TransitionSink

	pending       [state.NumDecisionTypes]*imitationPending
	lastState     state.GameState
	haveLastState bool
}

var _ strategy.Strategy = (*ImitationStrategy)(nil)

// NewImitationStrategy returns a recording adapter around a fresh
// HardVince instance.
func NewImitationStrategy(weights strategy.VinceWeights, sink drl.TransitionSink) *ImitationStrategy {
	return &ImitationStrategy{Vince: strategy.NewHardVince(weights), Sink: sink}
}

func (r *ImitationStrategy) finalize(d state.DecisionType, nextVector []float64, extraReward float64, done bool) {
	pend := r.pending[d]
	if pend == nil {
		return
	}
	if r.Sink != nil {
		r.Sink.Add(state.Transition{
			DecisionType:    d,
			StateVector:     pend.stateVector,
			ActionIndex:     pend.actionIndex,
			Reward:          pend.reward + extraReward,
			NextStateVector: nextVector,
			Done:            done,
		})
	}
	r.pending[d] = nil
}

func (r *ImitationStrategy) record(d state.DecisionType, stateVector []float64, actionIndex int) {
	r.pending[d] = &imitationPending{stateVector: stateVector, actionIndex: actionIndex}
}

func (r *ImitationStrategy) probeState(activeCount int, isGoldenScore bool) state.GameState {
	if r.haveLastState {
		s := r.lastState
		s.IsGoldenScore = isGoldenScore
		return s
	}
	n := activeCount
	if n <= 0 {
		n = 1
	}
	return state.GameState{
		Hands:         make([]cards.Hand, n),
		Scores:        make([]int, n),
		Eliminated:    make([]bool, n),
		IsGoldenScore: isGoldenScore,
	}
}

// SelectHandSize delegates to HardVince, classifying the chosen size
// into the select_hand_size head's 7-way action space.
func (r *ImitationStrategy) SelectHandSize(activeCount int, isGoldenScore bool) int {
	chosen := r.Vince.SelectHandSize(activeCount, isGoldenScore)

	s := r.probeState(activeCount, isGoldenScore)
	vector := feature.Extract(cards.Hand{}, 0, s)
	r.finalize(state.DecisionHandSize, vector, 0, false)
	r.record(state.DecisionHandSize, vector, classifyHandSizeAction(chosen))
	return chosen
}

// ShouldZapZap delegates to HardVince, classifying the call into the
// zap_zap head's binary action space.
func (r *ImitationStrategy) ShouldZapZap(hand cards.Hand, s state.GameState) bool {
	r.lastState, r.haveLastState = s, true
	called := r.Vince.ShouldZapZap(hand, s)

	vector := feature.Extract(hand, s.CurrentTurn, s)
	r.finalize(state.DecisionZapZap, vector, 0, false)
	action := 0
	if called {
		action = 1
	}
	r.record(state.DecisionZapZap, vector, action)
	return called
}

// SelectPlay delegates to HardVince, classifying the returned play into
// the play_type head's 5-way action space (§4.6: single, set, run,
// multi-combo, pass-to-fallback).
func (r *ImitationStrategy) SelectPlay(hand cards.Hand, s state.GameState) cards.Hand {
	r.lastState, r.haveLastState = s, true
	play := r.Vince.SelectPlay(hand, s)

	vector := feature.Extract(hand, s.CurrentTurn, s)
	r.finalize(state.DecisionPlayType, vector, 0, false)
	r.record(state.DecisionPlayType, vector, classifyPlayTypeAction(play, hand))

	if play != nil {
		r.pending[state.DecisionPlayType].reward += drl.IntermediatePlayReward(hand, hand.Without(play))
	}
	return play
}

// SelectDrawSource delegates to HardVince, classifying the source into
// the draw_source head's binary action space.
func (r *ImitationStrategy) SelectDrawSource(hand cards.Hand, lastCardsPlayed cards.Hand, s state.GameState) state.DrawSource {
	r.lastState, r.haveLastState = s, true
	source := r.Vince.SelectDrawSource(hand, lastCardsPlayed, s)

	vector := feature.Extract(hand, s.CurrentTurn, s)
	r.finalize(state.DecisionDrawSource, vector, 0, false)
	action := 0
	if source == state.DrawFromPlayed {
		action = 1
	}
	r.record(state.DecisionDrawSource, vector, action)
	return source
}

// OnGameEnd closes out every head's pending transition with the
// terminal reward.
func (r *ImitationStrategy) OnGameEnd(result strategy.GameResult, myIndex int) {
	r.Vince.OnGameEnd(result, myIndex)
	for d := state.DecisionType(0); d < state.NumDecisionTypes; d++ {
		pend := r.pending[d]
		if pend == nil {
			continue
		}
		terminal := drl.TerminalReward(d, result.FinalScores, myIndex)
		r.finalize(d, pend.stateVector, terminal, true)
	}
	r.haveLastState = false
}

// classifyHandSizeAction maps a chosen hand size to the nearest slot in
// the 7-way {4,5,6,7,8,9,10} action space.
func classifyHandSizeAction(size int) int {
	options := [7]int{4, 5, 6, 7, 8, 9, 10}
	best, bestDist := 0, 1<<30
	for i, v := range options {
		dist := v - size
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// classifyPlayTypeAction maps a concrete play back to the action index
// resolvePlayTypeAction would have produced it from, so expert and
// self-play transitions share one action space.
func classifyPlayTypeAction(play cards.Hand, hand cards.Hand) int {
	if play == nil {
		return 4
	}

	switch analyzer.ClassifyPlay(play) {
	case analyzer.Single:
		if isSmallestOfType(play, hand, analyzer.Single) {
			return 0
		}
	case analyzer.Set:
		if isLargestOfType(play, hand, analyzer.Set) {
			return 1
		}
	case analyzer.Run:
		if isLargestOfType(play, hand, analyzer.Run) {
			return 2
		}
	}
	return 3
}

func isSmallestOfType(play, hand cards.Hand, want analyzer.PlayType) bool {
	for _, candidate := range analyzer.FindAllValidPlays(hand) {
		if analyzer.ClassifyPlay(candidate) != want {
			continue
		}
		if len(candidate) < len(play) {
			return false
		}
	}
	return true
}

func isLargestOfType(play, hand cards.Hand, want analyzer.PlayType) bool {
	for _, candidate := range analyzer.FindAllValidPlays(hand) {
		if analyzer.ClassifyPlay(candidate) != want {
			continue
		}
		if len(candidate) > len(play) {
			return false
		}
	}
	return true
}

// PrefillBuffer plays ImitationOpponents HardVince copies against each
// other for games many games, recording seat 0's decisions, then keeps
// only the highest-reward transitions per head up to capacityPerHead *
// ImitationFraction (§4.8's pre-fill pass).
func PrefillBuffer(buffer *CentralBuffer, weights strategy.VinceWeights, capacityPerHead int, games int, baseSeed int64) error {
	collected := make([][]state.Transition, state.NumDecisionTypes)

	for g := 0; g < games; g++ {
		collector := &transitionCollector{}
		agent := NewImitationStrategy(weights, collector)

		strategies := make([]strategy.Strategy, ImitationOpponents)
		strategies[0] = agent
		for seat := 1; seat < ImitationOpponents; seat++ {
			strategies[seat] = strategy.NewHardVince(weights)
		}

		seed := baseSeed + int64(g)
		result, err := engine.RunGame(strategies, seed)
		if err != nil {
			return err
		}
		agent.OnGameEnd(strategy.GameResult{
			Winner:      result.Winner,
			FinalScores: result.FinalScores,
			Rounds:      result.Rounds,
		}, 0)

		for _, t := range collector.transitions {
			collected[t.DecisionType] = append(collected[t.DecisionType], t)
		}
	}

	limit := int(float64(capacityPerHead) * ImitationFraction)
	for _, transitions := range collected {
		for _, t := range topTransitions(transitions, limit) {
			buffer.Add(t)
		}
	}
	return nil
}

// topTransitions returns the up-to-limit highest-reward transitions,
// descending.
func topTransitions(transitions []state.Transition, limit int) []state.Transition {
	sort.Slice(transitions, func(i, j int) bool {
		return transitions[i].Reward > transitions[j].Reward
	})
	if limit >= 0 && len(transitions) > limit {
		return transitions[:limit]
	}
	return transitions
}
