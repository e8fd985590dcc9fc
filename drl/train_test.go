package drl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zapzap/zapzap/feature"
	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/replay"
	"github.com/zapzap/zapzap/state"
)

func sampleBatch(n int, reward float64, done bool) []replay.Sample {
	out := make([]replay.Sample, n)
	for i := range out {
		sv := make([]float64, feature.Dim)
		sv[0] = float64(i) / float64(n)
		nsv := make([]float64, feature.Dim)
		nsv[0] = sv[0] + 0.01
		out[i] = replay.Sample{
			Transition: state.Transition{
				DecisionType:    state.DecisionPlayType,
				StateVector:     sv,
				ActionIndex:     i % state.DecisionPlayType.ActionCount(),
				Reward:          reward,
				NextStateVector: nsv,
				Done:            done,
			},
			Weight: 1.0,
		}
	}
	return out
}

func TestTrainStepReturnsOneTDErrorPerSample(t *testing.T) {
	online := qnet.New(1)
	target := qnet.New(2)
	batch := sampleBatch(8, 1.0, false)
	result := TrainStep(online, target, state.DecisionPlayType, batch, LearningRate)
	assert.Len(t, result.TDErrors, 8)
}

func TestTrainStepReducesLossOverRepeatedSteps(t *testing.T) {
	online := qnet.New(7)
	target := online.Clone()
	batch := sampleBatch(16, 1.0, true) // done=true isolates the update from bootstrap noise

	first := TrainStep(online, target, state.DecisionPlayType, batch, LearningRate)
	var last StepResult
	for i := 0; i < 50; i++ {
		last = TrainStep(online, target, state.DecisionPlayType, batch, LearningRate)
	}
	assert.Less(t, math.Abs(last.Loss), math.Abs(first.Loss)+1e-9)
}

func TestCopyFromMatchesOnlineForTraining(t *testing.T) {
	online := qnet.New(1)
	target := qnet.New(2)
	target.CopyFrom(online)

	input := make([]float64, feature.Dim)
	want := online.Forward(state.DecisionPlayType, input)
	got := target.Forward(state.DecisionPlayType, input)
	assert.Equal(t, want, got)
}
