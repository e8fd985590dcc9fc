package orchestrator

import (
	"math/rand"

	"github.com/zapzap/zapzap/drl"
	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/replay"
	"github.com/zapzap/zapzap/state"
)

// TrainBatchSize is the number of transitions drawn per head per
// training step.
const TrainBatchSize = 64

// CentralBuffer is the orchestrator's sole replay buffer: one
// prioritized sum-tree per decision head, since each head has its own
// independent Markov chain (§4.6) and samples/trains separately.
// Owned exclusively by the orchestrator's single training task (§5).
type CentralBuffer struct {
	perHead [state.NumDecisionTypes]*replay.Buffer
}

// NewCentralBuffer allocates a per-head buffer of the given capacity.
func NewCentralBuffer(capacityPerHead int) *CentralBuffer {
	b := &CentralBuffer{}
	for d := range b.perHead {
		b.perHead[d] = replay.NewBuffer(capacityPerHead)
	}
	return b
}

// Add routes a transition into its head's buffer.
func (b *CentralBuffer) Add(t state.Transition) {
	b.perHead[t.DecisionType].Add(t)
}

// Len returns how many transitions are stored for a head.
func (b *CentralBuffer) Len(d state.DecisionType) int {
	return b.perHead[d].Len()
}

// Trainer runs Double-DQN training steps against a CentralBuffer and
// keeps the target network refreshed (§4.6/§4.8).
type Trainer struct {
	Online *qnet.Network
	Target *qnet.Network
	Buffer *CentralBuffer
	RNG    *rand.Rand

	stepsSinceTargetSync int
}

// NewTrainer builds a trainer whose target network starts as an exact
// copy of online, satisfying the immediately-after-update testable
// property (§8) from the first step onward.
func NewTrainer(online *qnet.Network, buffer *CentralBuffer, seed int64) *Trainer {
	target := online.Clone()
	return &Trainer{Online: online, Target: target, Buffer: buffer, RNG: rand.New(rand.NewSource(seed))}
}

// RunIterations performs n training steps, one per decision head with
// enough buffered transitions, refreshing the target network every
// drl.TargetUpdateFreq steps.
func (t *Trainer) RunIterations(n int) {
	for i := 0; i < n; i++ {
		for d := state.DecisionType(0); d < state.NumDecisionTypes; d++ {
			buf := t.Buffer.perHead[d]
			if buf.Len() < TrainBatchSize {
				continue
			}
			samples := buf.Sample(TrainBatchSize, t.RNG.Float64)
			if len(samples) == 0 {
				continue
			}
			result := drl.TrainStep(t.Online, t.Target, d, samples, drl.LearningRate)
			buf.UpdatePriorities(samples, result.TDErrors)
		}

		t.stepsSinceTargetSync++
		if t.stepsSinceTargetSync >= drl.TargetUpdateFreq {
			t.Target.CopyFrom(t.Online)
			t.stepsSinceTargetSync = 0
		}
	}
}
