// Package replay implements the prioritized experience replay buffer
// described in §4.5: a sum-tree keyed by priority, importance-sampling
// weights for the training loss, and a linearly annealed beta.
package replay

import (
	"math"

	"github.com/zapzap/zapzap/state"
)

const (
	// defaultAlpha is how strongly priority magnitude is exponentiated
	// before being written to the tree.
	defaultAlpha = 0.6
	// betaStart/betaIncrement anneal importance-sampling correction
	// toward 1.0 as training proceeds (§4.6).
	betaStart     = 0.4
	betaIncrement = 1e-3
	betaMax       = 1.0
	// priorityEpsilon keeps a zero-TD-error transition sampleable.
	priorityEpsilon = 1e-5
)

// Sample is one drawn transition plus the bookkeeping needed to later
// report its TD error back to the tree.
type Sample struct {
	Transition state.Transition
	Weight     float64
	treeIdx    int
}

// Buffer is a capacity-bounded prioritized replay buffer.
type Buffer struct {
	tree  *sumTree
	alpha float64
	beta  float64
}

// NewBuffer returns an empty buffer of the given capacity using the
// spec's default alpha (0.6) and initial beta (0.4).
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		tree:  newSumTree(capacity),
		alpha: defaultAlpha,
		beta:  betaStart,
	}
}

// Len reports how many transitions are currently stored.
func (b *Buffer) Len() int { return b.tree.Size() }

// Add inserts a transition with priority equal to the current maximum
// observed priority, so every new experience is guaranteed at least one
// sampling opportunity before its TD error is known.
func (b *Buffer) Add(t state.Transition) {
	priority := b.tree.Max()
	if priority == 0 {
		priority = 1.0
	}
	b.tree.Add(priority, t)
}

// Sample draws k transitions, one from each of k equal-width segments
// of the total priority mass, and anneals beta by one increment.
func (b *Buffer) Sample(k int, rng func() float64) []Sample {
	n := b.tree.Size()
	if n == 0 || k <= 0 {
		return nil
	}
	total := b.tree.Total()
	segment := total / float64(k)

	samples := make([]Sample, 0, k)
	maxWeight := 0.0
	for i := 0; i < k; i++ {
		low := segment * float64(i)
		s := low + rng()*segment
		leafIdx, priority, data := b.tree.Get(s)

		prob := priority / total
		weight := math.Pow(float64(n)*prob, -b.beta)
		if weight > maxWeight {
			maxWeight = weight
		}
		samples = append(samples, Sample{
			Transition: data.(state.Transition),
			Weight:     weight,
			treeIdx:    leafIdx,
		})
	}

	if maxWeight > 0 {
		for i := range samples {
			samples[i].Weight /= maxWeight
		}
	}

	b.beta += betaIncrement
	if b.beta > betaMax {
		b.beta = betaMax
	}
	return samples
}

// UpdatePriorities reports the TD errors observed for a batch of
// previously sampled transitions, rewriting their tree priorities as
// (|tdError| + eps)^alpha.
func (b *Buffer) UpdatePriorities(samples []Sample, tdErrors []float64) {
	for i, s := range samples {
		p := math.Pow(math.Abs(tdErrors[i])+priorityEpsilon, b.alpha)
		b.tree.Update(s.treeIdx, p)
	}
}

// Beta returns the buffer's current importance-sampling exponent.
func (b *Buffer) Beta() float64 { return b.beta }
