package engine

import (
	"testing"

	"github.com/zapzap/zapzap/cards"
	"github.com/zapzap/zapzap/state"
	"github.com/zapzap/zapzap/strategy"
)

func TestResolveZapZapCounteractionScenario(t *testing.T) {
	// §8 scenario 6: P0 value 1, P1 (caller) value 2, P2 value 5. P0's
	// eligibility is <= the caller's, so the caller is counteracted.
	s := state.GameState{
		Hands: []cards.Hand{
			{0},      // Ace of spades -> 1
			{13, 26}, // Ace of hearts + Ace of clubs -> 2
			{4},      // Five of spades -> 5
		},
		Scores:     []int{0, 0, 0},
		Eliminated: []bool{false, false, false},
	}

	round := resolveZapZap(s, 1)
	if !round.Counteracted {
		t.Fatal("expected counteraction: P0's eligibility (1) <= caller P1's (2)")
	}
	if round.PenaltyDeltas[1] != 2+CounteractionBonusPerOpponent*2 {
		t.Errorf("P1 (caller) penalty = %d, want %d", round.PenaltyDeltas[1], 2+CounteractionBonusPerOpponent*2)
	}
	if round.PenaltyDeltas[0] != 0 {
		t.Errorf("P0 (min eligibility) penalty = %d, want 0", round.PenaltyDeltas[0])
	}
	if round.PenaltyDeltas[2] != 5 {
		t.Errorf("P2 penalty = %d, want 5", round.PenaltyDeltas[2])
	}
}

func TestResolveZapZapNoCounteraction(t *testing.T) {
	s := state.GameState{
		Hands: []cards.Hand{
			{0},      // caller, value 1
			{10, 23}, // J+J -> 22, well above caller's value
		},
		Scores:     []int{0, 0},
		Eliminated: []bool{false, false},
	}
	round := resolveZapZap(s, 0)
	if round.Counteracted {
		t.Fatal("no other player should be able to counteract a lower hand")
	}
	if round.PenaltyDeltas[0] != 0 {
		t.Errorf("caller should pay 0 when uncontested, got %d", round.PenaltyDeltas[0])
	}
	if round.PenaltyDeltas[1] == 0 {
		t.Error("non-caller should pay their penalty-mode hand value")
	}
}

func TestRunGameInvariantAndTermination(t *testing.T) {
	strategies := []strategy.Strategy{
		passiveStrategy{}, passiveStrategy{}, passiveStrategy{},
	}
	result, err := RunGame(strategies, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Winner < 0 || result.Winner >= 3 {
		t.Fatalf("winner index out of range: %d", result.Winner)
	}
	if len(result.FinalScores) != 3 {
		t.Fatalf("expected 3 final scores, got %d", len(result.FinalScores))
	}
	if result.Rounds <= 0 {
		t.Error("expected at least one round to have been played")
	}
}

func TestRunGameRejectsBadPlayerCount(t *testing.T) {
	if _, err := RunGame([]strategy.Strategy{passiveStrategy{}}, 1); err == nil {
		t.Error("expected error for 1 strategy")
	}
	five := []strategy.Strategy{passiveStrategy{}, passiveStrategy{}, passiveStrategy{}, passiveStrategy{}, passiveStrategy{}}
	if _, err := RunGame(five, 1); err == nil {
		t.Error("expected error for 5 strategies")
	}
}

func TestFinalScoresNeverNegative(t *testing.T) {
	strategies := []strategy.Strategy{passiveStrategy{}, passiveStrategy{}}
	result, err := RunGame(strategies, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, score := range result.FinalScores {
		if score < 0 {
			t.Errorf("scores must never go negative, got %d", score)
		}
	}
}

// passiveStrategy only calls ZapZap with two or fewer cards (which its
// play-one, draw-one turns never reach, so its rounds end at the turn
// cap), always takes the engine's fallback play, and always draws from
// the deck: exercises the turn loop under engine-provided defaults.
type passiveStrategy struct {
	strategy.BaseStrategy
}

func (passiveStrategy) SelectHandSize(activeCount int, golden bool) int { return 7 }
func (passiveStrategy) ShouldZapZap(hand cards.Hand, s state.GameState) bool {
	return len(hand) <= 2
}
func (passiveStrategy) SelectPlay(hand cards.Hand, s state.GameState) cards.Hand { return nil }
func (passiveStrategy) SelectDrawSource(hand, lastPlayed cards.Hand, s state.GameState) state.DrawSource {
	return state.DrawFromDeck
}

func TestCounteractedCallsBySeatTracksPerSeatCounteractions(t *testing.T) {
	strategies := []strategy.Strategy{passiveStrategy{}, passiveStrategy{}, passiveStrategy{}}
	for seed := int64(0); seed < 20; seed++ {
		result, err := RunGame(strategies, seed)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		metrics := result.Metrics
		if metrics.CounteractedCallsBySeat == nil {
			continue
		}
		if len(metrics.CounteractedCallsBySeat) != len(strategies) {
			t.Fatalf("seed %d: CounteractedCallsBySeat has %d entries, want %d", seed, len(metrics.CounteractedCallsBySeat), len(strategies))
		}
		total := 0
		for seat, count := range metrics.CounteractedCallsBySeat {
			if count < 0 {
				t.Errorf("seed %d: seat %d has negative counteracted count %d", seed, seat, count)
			}
			total += count
		}
		if total > metrics.ZapZapCalls {
			t.Errorf("seed %d: counteracted total %d exceeds ZapZapCalls %d", seed, total, metrics.ZapZapCalls)
		}
	}
}

func TestTurnSafetyCapNotHitInNormalPlay(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		strategies := []strategy.Strategy{strategy.NewEasy(seed), strategy.NewEasy(seed + 100)}
		result, err := RunGame(strategies, seed)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		// Every round must end on a real ZapZap call, never on the cap.
		if result.Metrics.ZapZapCalls != result.Rounds {
			t.Errorf("seed %d: %d ZapZap calls over %d rounds; the turn cap ended a round", seed, result.Metrics.ZapZapCalls, result.Rounds)
		}
	}
}
