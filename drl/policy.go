// Package drl implements the Double-DQN training signal over §4.6's
// four-head Q-network: epsilon-greedy action selection, the training
// step, and reward shaping. It consumes qnet.Network and feature.Extract
// but owns no game rules of its own.
package drl

import (
	"math/rand"

	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/state"
)

const (
	// EpsilonStart/EpsilonFloor/EpsilonDecay govern the per-head
	// epsilon-greedy exploration schedule.
	EpsilonStart = 0.3
	EpsilonFloor = 0.02
	EpsilonDecay = 0.9995
)

// Policy wraps a Q-network with an epsilon-greedy action rule. Epsilon
// decays multiplicatively per call to DecayStep; TrainedMode forces the
// floor regardless of the decayed value (serving bots, not training).
type Policy struct {
	Net         *qnet.Network
	Epsilon     float64
	TrainedMode bool
	RNG         *rand.Rand
}

// NewPolicy returns a policy starting at EpsilonStart.
func NewPolicy(net *qnet.Network, seed int64) *Policy {
	return &Policy{
		Net:     net,
		Epsilon: EpsilonStart,
		RNG:     rand.New(rand.NewSource(seed)),
	}
}

// currentEpsilon is the exploration rate actually used for selection.
func (p *Policy) currentEpsilon() float64 {
	if p.TrainedMode {
		return EpsilonFloor
	}
	return p.Epsilon
}

// Select returns an action index for decision type d given the feature
// vector, following epsilon-greedy over the online network's Q-values.
func (p *Policy) Select(d state.DecisionType, features []float64) int {
	if p.RNG.Float64() < p.currentEpsilon() {
		return p.RNG.Intn(d.ActionCount())
	}
	q := p.Net.Forward(d, features)
	return qnet.ArgMax(q)
}

// DecayStep anneals epsilon one training step toward the floor. It is a
// no-op in TrainedMode since TrainedMode already pins selection to the
// floor.
func (p *Policy) DecayStep() {
	if p.TrainedMode {
		return
	}
	p.Epsilon *= EpsilonDecay
	if p.Epsilon < EpsilonFloor {
		p.Epsilon = EpsilonFloor
	}
}
