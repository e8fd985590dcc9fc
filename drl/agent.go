package drl

import (
	"github.com/zapzap/zapzap/analyzer"
	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/feature"
	"github.com/zapzap/zapzap/state"
	"github.com/zapzap/zapzap/strategy"
)

// pendingTransition is a head's in-flight (state, action) pair, waiting
// for that same head's next invocation to supply next_state and for any
// reward accrued in between (§4.6: "next_state for a head is the
// feature vector at the same head's next invocation").
type pendingTransition struct {
	stateVector []float64
	actionIndex int
	reward      float64
}

// TransitionSink receives completed transitions. *replay.Buffer
// satisfies it directly; the training orchestrator's per-worker batches
// instead collect into a plain slice before shipping them to the
// central buffer (§4.8: workers hold no shared mutable state, so a
// worker never touches the central buffer itself).
type TransitionSink interface {
	Add(state.Transition)
}

// RLStrategy is the strategy.Strategy adapter over a Policy: it turns
// each decision into a feature vector + epsilon-greedy action, maps
// that action back into the interface's concrete return types, and
// (when Buffer is non-nil) records completed transitions for training.
type RLStrategy struct {
	Policy *Policy
	Buffer TransitionSink

	pending       [state.NumDecisionTypes]*pendingTransition
	lastState     state.GameState
	haveLastState bool
}

var _ strategy.Strategy = (*RLStrategy)(nil)

// NewRLStrategy returns an adapter driving policy's action selection.
// A nil sink runs the policy in pure inference mode: no transitions
// are recorded (serving a trained bot rather than training one).
func NewRLStrategy(policy *Policy, sink TransitionSink) *RLStrategy {
	return &RLStrategy{Policy: policy, Buffer: sink}
}

// finalize closes out d's pending transition, if any, against the given
// next-state feature vector, pushing it to the buffer.
func (r *RLStrategy) finalize(d state.DecisionType, nextVector []float64, extraReward float64, done bool) {
	pend := r.pending[d]
	if pend == nil {
		return
	}
	if r.Buffer != nil {
		r.Buffer.Add(state.Transition{
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

func (r *RLStrategy) record(d state.DecisionType, stateVector []float64, actionIndex int) {
	r.pending[d] = &pendingTransition{stateVector: stateVector, actionIndex: actionIndex}
}

// handSizeOptions enumerates the 7 hand sizes the select_hand_size head
// chooses among (engine clamps to [4, golden ? 10 : 7] regardless).
var handSizeOptions = [7]int{4, 5, 6, 7, 8, 9, 10}

// SelectHandSize is asked only of the round's starting player, with no
// GameState argument; it extracts features from the last full state
// this adapter observed (or a round-start synthetic stand-in before any
// state has been seen) so the head still has a 45-dim input.
func (r *RLStrategy) SelectHandSize(activeCount int, isGoldenScore bool) int {
	s := r.handSizeProbeState(activeCount, isGoldenScore)
	vector := feature.Extract(cards.Hand{}, 0, s)

	r.finalize(state.DecisionHandSize, vector, 0, false)
	action := r.Policy.Select(state.DecisionHandSize, vector)
	r.record(state.DecisionHandSize, vector, action)
	return handSizeOptions[action]
}

// handSizeProbeState builds a minimal GameState standing in for the
// state the hand_size decision is made against, since the interface
// gives this call no GameState of its own.
func (r *RLStrategy) handSizeProbeState(activeCount int, isGoldenScore bool) state.GameState {
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

// ShouldZapZap extracts features and picks {don't call, call} via the
// zap_zap head.
func (r *RLStrategy) ShouldZapZap(hand cards.Hand, s state.GameState) bool {
	r.lastState, r.haveLastState = s, true
	p := s.CurrentTurn
	vector := feature.Extract(hand, p, s)

	r.finalize(state.DecisionZapZap, vector, 0, false)
	action := r.Policy.Select(state.DecisionZapZap, vector)
	r.record(state.DecisionZapZap, vector, action)
	return action == 1
}

// SelectPlay picks a play_type action (single/set/run/multi-combo/
// pass-to-fallback) and resolves it against the concrete valid plays
// available in hand.
func (r *RLStrategy) SelectPlay(hand cards.Hand, s state.GameState) cards.Hand {
	r.lastState, r.haveLastState = s, true
	p := s.CurrentTurn
	vector := feature.Extract(hand, p, s)

	r.finalize(state.DecisionPlayType, vector, 0, false)
	action := r.Policy.Select(state.DecisionPlayType, vector)
	r.record(state.DecisionPlayType, vector, action)

	play := resolvePlayTypeAction(action, hand)

	// Intermediate reward for this step is only knowable once the play
	// is resolved; fold it into the just-recorded pending transition so
	// the *next* play_type invocation's finalize carries it forward.
	if play != nil {
		r.pending[state.DecisionPlayType].reward += IntermediatePlayReward(hand, hand.Without(play))
	}
	return play
}

// resolvePlayTypeAction maps a play_type action index to a concrete
// play: 0 smallest single, 1 largest set, 2 largest run, 3 the overall
// highest-point play (the "multi-combo" catch-all), 4 pass-to-fallback
// (nil, so the engine substitutes its deterministic fallback).
func resolvePlayTypeAction(action int, hand cards.Hand) cards.Hand {
	if action == 4 {
		return nil
	}
	plays := analyzer.FindAllValidPlays(hand)
	if len(plays) == 0 {
		return nil
	}

	switch action {
	case 0:
		return smallestOfType(plays, analyzer.Single)
	case 1:
		return largestOfType(plays, analyzer.Set)
	case 2:
		return largestOfType(plays, analyzer.Run)
	default:
		return analyzer.FindMaxPointPlay(hand)
	}
}

func smallestOfType(plays []cards.Hand, want analyzer.PlayType) cards.Hand {
	var best cards.Hand
	for _, play := range plays {
		if analyzer.ClassifyPlay(play) != want {
			continue
		}
		if best == nil || len(play) < len(best) {
			best = play
		}
	}
	return best
}

func largestOfType(plays []cards.Hand, want analyzer.PlayType) cards.Hand {
	var best cards.Hand
	for _, play := range plays {
		if analyzer.ClassifyPlay(play) != want {
			continue
		}
		if best == nil || len(play) > len(best) {
			best = play
		}
	}
	return best
}

// SelectDrawSource extracts features and picks {deck, played} via the
// draw_source head. No intermediate reward is added to draw_source
// transitions; the preceding play's reward goes to the play_type head.
func (r *RLStrategy) SelectDrawSource(hand cards.Hand, lastCardsPlayed cards.Hand, s state.GameState) state.DrawSource {
	r.lastState, r.haveLastState = s, true
	p := s.CurrentTurn
	vector := feature.Extract(hand, p, s)

	r.finalize(state.DecisionDrawSource, vector, 0, false)
	action := r.Policy.Select(state.DecisionDrawSource, vector)
	r.record(state.DecisionDrawSource, vector, action)

	if action == 1 {
		return state.DrawFromPlayed
	}
	return state.DrawFromDeck
}

// OnGameEnd closes out every head's pending transition with the
// terminal reward, marking each Done so the training step skips the
// bootstrap term.
func (r *RLStrategy) OnGameEnd(result strategy.GameResult, myIndex int) {
	for d := state.DecisionType(0); d < state.NumDecisionTypes; d++ {
		pend := r.pending[d]
		if pend == nil {
			continue
		}
		terminal := TerminalReward(d, result.FinalScores, myIndex)
		r.finalize(d, pend.stateVector, terminal, true)
	}
	r.Policy.DecayStep()
	r.haveLastState = false
}
