package replay

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapzap/zapzap/state"
)

func tr(reward float64) state.Transition {
	return state.Transition{DecisionType: state.DecisionPlayType, Reward: reward}
}

func TestBufferAddAndLen(t *testing.T) {
	b := NewBuffer(8)
	for i := 0; i < 5; i++ {
		b.Add(tr(float64(i)))
	}
	assert.Equal(t, 5, b.Len())
}

func TestBufferSampleReturnsRequestedCount(t *testing.T) {
	b := NewBuffer(16)
	for i := 0; i < 10; i++ {
		b.Add(tr(float64(i)))
	}
	rng := rand.New(rand.NewSource(1))
	samples := b.Sample(4, rng.Float64)
	require.Len(t, samples, 4)
	for _, s := range samples {
		assert.GreaterOrEqual(t, s.Weight, 0.0)
	}
}

func TestBufferBetaAnnealsTowardOne(t *testing.T) {
	b := NewBuffer(16)
	for i := 0; i < 10; i++ {
		b.Add(tr(1))
	}
	rng := rand.New(rand.NewSource(1))
	startBeta := b.Beta()
	for i := 0; i < 50; i++ {
		b.Sample(4, rng.Float64)
	}
	assert.Greater(t, b.Beta(), startBeta)
	assert.LessOrEqual(t, b.Beta(), 1.0)
}

func TestBufferHighPriorityOverrepresentedInSampling(t *testing.T) {
	b := NewBuffer(16)
	for i := 0; i < 15; i++ {
		b.Add(tr(0))
	}
	rng := rand.New(rand.NewSource(7))
	samples := b.Sample(15, rng.Float64)
	require.Len(t, samples, 15)

	// Boost one sample's priority far above the rest; the tree's total
	// mass must grow to reflect it, which is what skews future sampling
	// toward that leaf's segment.
	hot := []Sample{samples[0]}
	b.UpdatePriorities(hot, []float64{100.0})
	assert.Greater(t, b.tree.Total(), 15.0)
}

func TestBufferUpdatePrioritiesChangesTreeTotal(t *testing.T) {
	b := NewBuffer(8)
	for i := 0; i < 4; i++ {
		b.Add(tr(0))
	}
	rng := rand.New(rand.NewSource(2))
	samples := b.Sample(2, rng.Float64)
	before := b.tree.Total()
	b.UpdatePriorities(samples, []float64{10.0, 10.0})
	assert.NotEqual(t, before, b.tree.Total())
}
