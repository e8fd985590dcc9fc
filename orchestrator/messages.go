// Package orchestrator implements the training driver of §4.8: a pool
// of workers running game batches against the current policy, a
// central replay buffer, periodic training and weight-sync rounds,
// imitation pre-fill from HardVince, and curriculum phase advancement.
package orchestrator

import (
	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/state"
	"github.com/zapzap/zapzap/strategy"
)

// Message is the closed set of requests the orchestrator sends to a
// worker (§5): init, run_batch, update_weights, shutdown.
type Message interface{ isMessage() }

// InitMessage seeds a worker's independent RNG and starting policy
// weights.
type InitMessage struct {
	Seed    int64
	Weights qnet.WeightsArtifact
	Epsilon float64
}

// RunBatchMessage asks a worker to play BatchSize games against the
// given opponent factories (one per non-agent seat; reused round-robin
// if fewer than 3), using the worker's current epsilon-greedy policy.
type RunBatchMessage struct {
	BatchSize int
	Opponents []func() strategy.Strategy
	BaseSeed  int64
}

// UpdateWeightsMessage pushes newly trained online-network weights and
// the current epsilon down to a worker.
type UpdateWeightsMessage struct {
	Weights qnet.WeightsArtifact
	Epsilon float64
}

// ShutdownMessage asks a worker to finish its current batch (if any)
// and stop.
type ShutdownMessage struct{}

func (InitMessage) isMessage()          {}
func (RunBatchMessage) isMessage()      {}
func (UpdateWeightsMessage) isMessage() {}
func (ShutdownMessage) isMessage()      {}

// Reply is the closed set of responses a worker sends back: ready,
// batch_complete, weights_updated, error.
type Reply interface{ isReply() }

// ReadyReply is sent once, in response to a worker's InitMessage.
type ReadyReply struct {
	WorkerID int
}

// BatchCompleteReply carries one worker's results for a RunBatch round.
type BatchCompleteReply struct {
	WorkerID    int
	Stats       BatchStats
	Transitions []state.Transition
}

// WeightsUpdatedReply acknowledges a completed UpdateWeightsMessage.
type WeightsUpdatedReply struct {
	WorkerID int
}

// ErrorReply reports a worker-side failure; the orchestrator responds
// by recreating the worker from scratch (§7).
type ErrorReply struct {
	WorkerID int
	Err      error
}

func (ReadyReply) isReply()          {}
func (BatchCompleteReply) isReply()  {}
func (WeightsUpdatedReply) isReply() {}
func (ErrorReply) isReply()          {}

// BatchStats summarizes one worker's batch of games.
type BatchStats struct {
	Games       int
	AgentWins   int
	ZapZapCalls int
}
