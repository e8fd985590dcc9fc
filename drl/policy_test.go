package drl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zapzap/zapzap/feature"
	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/state"
)

func TestTrainedModeForcesEpsilonFloor(t *testing.T) {
	p := NewPolicy(qnet.New(1), 1)
	p.TrainedMode = true
	p.Epsilon = 0.9
	assert.Equal(t, EpsilonFloor, p.currentEpsilon())
}

func TestDecayStepMovesTowardFloorAndStops(t *testing.T) {
	p := NewPolicy(qnet.New(1), 1)
	for i := 0; i < 100000; i++ {
		p.DecayStep()
	}
	assert.InDelta(t, EpsilonFloor, p.Epsilon, 1e-9)
}

func TestSelectReturnsValidActionIndex(t *testing.T) {
	p := NewPolicy(qnet.New(1), 2)
	input := make([]float64, feature.Dim)
	for d := state.DecisionType(0); d < state.NumDecisionTypes; d++ {
		a := p.Select(d, input)
		assert.GreaterOrEqual(t, a, 0)
		assert.Less(t, a, d.ActionCount())
	}
}
