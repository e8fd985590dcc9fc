// Package qnet implements the four independent feed-forward Q-network
// heads (one per decision type) and their Double-DQN target network
// (§4.6). It is a plain CPU matmul implementation: the spec is
// framework-agnostic and only constrains shape, initialization, and the
// training signal, not a specific numerical library.
package qnet

import (
	"math"
	"math/rand"

	"github.com/zapzap/zapzap/feature"
	"github.com/zapzap/zapzap/state"
)

// HiddenLayers is the shared hidden-layer width sequence for every head.
var HiddenLayers = []int{256, 128, 64, 32}

// Layer is one dense layer: Weights[out][in] plus a per-output bias.
type Layer struct {
	Weights [][]float64
	Biases  []float64
}

func newLayer(in, out int, rng *rand.Rand) Layer {
	l := Layer{
		Weights: make([][]float64, out),
		Biases:  make([]float64, out),
	}
	// He initialization: N(0, sqrt(2/fan_in)) per weight.
	stddev := math.Sqrt(2.0 / float64(in))
	for o := 0; o < out; o++ {
		l.Weights[o] = make([]float64, in)
		for i := 0; i < in; i++ {
			l.Weights[o][i] = rng.NormFloat64() * stddev
		}
	}
	return l
}

func (l Layer) forward(input []float64, relu bool) []float64 {
	out := make([]float64, len(l.Weights))
	for o, row := range l.Weights {
		sum := l.Biases[o]
		for i, w := range row {
			sum += w * input[i]
		}
		if relu && sum < 0 {
			sum = 0
		}
		out[o] = sum
	}
	return out
}

func (l Layer) clone() Layer {
	out := Layer{
		Weights: make([][]float64, len(l.Weights)),
		Biases:  append([]float64(nil), l.Biases...),
	}
	for i, row := range l.Weights {
		out.Weights[i] = append([]float64(nil), row...)
	}
	return out
}

// Head is one decision type's feed-forward network: feature.Dim input,
// HiddenLayers hidden layers with ReLU, linear output of ActionCount
// dimension.
type Head struct {
	Layers []Layer
}

func newHead(outputDim int, rng *rand.Rand) Head {
	dims := append([]int{feature.Dim}, HiddenLayers...)
	dims = append(dims, outputDim)
	layers := make([]Layer, len(dims)-1)
	for i := 0; i < len(dims)-1; i++ {
		layers[i] = newLayer(dims[i], dims[i+1], rng)
	}
	return Head{Layers: layers}
}

// Forward runs input through every layer, applying ReLU to every hidden
// layer but not the final (Q-value) output layer.
func (h Head) Forward(input []float64) []float64 {
	x := input
	for i, layer := range h.Layers {
		x = layer.forward(x, i < len(h.Layers)-1)
	}
	return x
}

func (h Head) clone() Head {
	out := Head{Layers: make([]Layer, len(h.Layers))}
	for i, l := range h.Layers {
		out.Layers[i] = l.clone()
	}
	return out
}

// Network holds one Head per decision type, indexed by state.DecisionType.
type Network struct {
	Heads [state.NumDecisionTypes]Head
}

// New builds a freshly He-initialized network with one head per
// decision type, each sized to that head's action count.
func New(seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))
	var n Network
	for d := state.DecisionType(0); d < state.NumDecisionTypes; d++ {
		n.Heads[d] = newHead(d.ActionCount(), rng)
	}
	return &n
}

// Forward returns the Q-values for every action of decision type d
// given a feature vector.
func (n *Network) Forward(d state.DecisionType, input []float64) []float64 {
	return n.Heads[d].Forward(input)
}

// Clone returns a deep, independent copy of the network.
func (n *Network) Clone() *Network {
	var out Network
	for i, h := range n.Heads {
		out.Heads[i] = h.clone()
	}
	return &out
}

// CopyFrom overwrites n's weights with a deep copy of other's (the
// target-network full-copy refresh of §4.6).
func (n *Network) CopyFrom(other *Network) {
	for i, h := range other.Heads {
		n.Heads[i] = h.clone()
	}
}

// ArgMax returns the index of the highest Q-value.
func ArgMax(q []float64) int {
	best := 0
	for i, v := range q {
		if v > q[best] {
			best = i
		}
	}
	return best
}
