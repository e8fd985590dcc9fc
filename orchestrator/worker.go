package orchestrator

import (
	"fmt"
	"math/rand"

	"github.com/zapzap/zapzap/drl"
	"github.com/zapzap/zapzap/engine"
	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/state"
	"github.com/zapzap/zapzap/strategy"
)

// SeatCount is the fixed table size a worker's batches are played at:
// one learning agent seat plus three opponent seats.
const SeatCount = 4

// transitionCollector gathers the transitions one worker's batch
// produces, to be merged into the orchestrator's central buffer once
// the batch completes (workers never touch the central buffer
// themselves, §4.8/§5).
type transitionCollector struct {
	transitions []state.Transition
}

func (c *transitionCollector) Add(t state.Transition) {
	c.transitions = append(c.transitions, t)
}

// Worker plays game batches against a fixed set of opponents using its
// own independent RNG and an inference-only copy of the shared policy
// (§4.8: "each worker holds an independent pseudo-random generator and
// an inference-only copy of the policy").
type Worker struct {
	ID     int
	RNG    *rand.Rand
	Policy *drl.Policy
}

// NewWorker builds a worker with its own seeded RNG and a fresh policy
// copy, initially matching the given weights and epsilon.
func NewWorker(id int, seed int64, weights qnet.WeightsArtifact, epsilon float64) (*Worker, error) {
	net, err := qnet.FromArtifact(weights)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: worker %d init: %w", id, err)
	}
	policy := drl.NewPolicy(net, seed)
	policy.Epsilon = epsilon
	return &Worker{ID: id, RNG: rand.New(rand.NewSource(seed)), Policy: policy}, nil
}

// ApplyWeights replaces the worker's network weights in place and
// resets epsilon to the synced value (the update_weights message).
func (w *Worker) ApplyWeights(weights qnet.WeightsArtifact, epsilon float64) error {
	net, err := qnet.FromArtifact(weights)
	if err != nil {
		return fmt.Errorf("orchestrator: worker %d update_weights: %w", w.ID, err)
	}
	w.Policy.Net = net
	w.Policy.Epsilon = epsilon
	return nil
}

// RunBatch plays msg.BatchSize games, seat 0 driven by the worker's
// policy and the remaining seats by msg.Opponents (cycled if fewer
// than SeatCount-1 are given), and returns the batch's aggregated
// stats plus every transition recorded across the batch.
func (w *Worker) RunBatch(msg RunBatchMessage) (BatchStats, []state.Transition, error) {
	collector := &transitionCollector{}
	stats := BatchStats{Games: msg.BatchSize}

	opponents := msg.Opponents
	if len(opponents) == 0 {
		return stats, nil, fmt.Errorf("orchestrator: worker %d run_batch: no opponents configured", w.ID)
	}

	for g := 0; g < msg.BatchSize; g++ {
		agent := drl.NewRLStrategy(w.Policy, collector)
		strategies := make([]strategy.Strategy, SeatCount)
		strategies[0] = agent
		for seat := 1; seat < SeatCount; seat++ {
			strategies[seat] = opponents[(seat-1)%len(opponents)]()
		}

		seed := msg.BaseSeed + int64(g)
		result, err := engine.RunGame(strategies, seed)
		if err != nil {
			return stats, collector.transitions, fmt.Errorf("orchestrator: worker %d game %d: %w", w.ID, g, err)
		}

		agent.OnGameEnd(strategy.GameResult{
			Winner:      result.Winner,
			FinalScores: result.FinalScores,
			Rounds:      result.Rounds,
		}, 0)

		if result.Winner == 0 {
			stats.AgentWins++
		}
		stats.ZapZapCalls += result.Metrics.ZapZapCalls
	}

	return stats, collector.transitions, nil
}
