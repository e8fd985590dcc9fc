package drl

import (
	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/replay"
	"github.com/zapzap/zapzap/state"
)

const (
	// Gamma, LearningRate, TargetUpdateFreq are the §4.6 Double-DQN
	// hyperparameters.
	Gamma            = 0.99
	LearningRate     = 3e-4
	TargetUpdateFreq = 1000
)

// StepResult carries the per-sample TD errors a caller reports back to
// the replay buffer's UpdatePriorities, plus the batch's IS-weighted
// loss for logging.
type StepResult struct {
	TDErrors []float64
	Loss     float64
}

// TrainStep runs one Double-DQN gradient step for a single decision
// type's batch: a* is chosen by the online network, evaluated by the
// target network, and the online network's weights for this head are
// nudged toward the resulting TD target by one step of plain SGD scaled
// by each sample's importance weight.
//
// online and target must be separate *qnet.Network values (never the
// same pointer) or the "online explores, target evaluates" split
// collapses into vanilla DQN.
func TrainStep(online, target *qnet.Network, d state.DecisionType, batch []replay.Sample, lr float64) StepResult {
	tdErrors := make([]float64, len(batch))
	totalLoss := 0.0

	head := &online.Heads[d]
	for i, sample := range batch {
		t := sample.Transition
		qOnline := online.Forward(d, t.StateVector)
		qOnlineNext := online.Forward(d, t.NextStateVector)
		qTargetNext := target.Forward(d, t.NextStateVector)

		bestNext := qnet.ArgMax(qOnlineNext)
		bootstrap := 0.0
		if !t.Done {
			bootstrap = Gamma * qTargetNext[bestNext]
		}
		tdTarget := t.Reward + bootstrap
		tdError := tdTarget - qOnline[t.ActionIndex]
		tdErrors[i] = tdError
		totalLoss += sample.Weight * tdError * tdError

		// Gradient of 0.5*(target-q)^2 w.r.t. q is -(target-q); scale by
		// the importance weight and step the output layer plus every
		// hidden layer via backprop through the stored activations.
		gradOutput := make([]float64, len(qOnline))
		gradOutput[t.ActionIndex] = -sample.Weight * tdError
		backpropAndUpdate(head, t.StateVector, gradOutput, lr)
	}

	if len(batch) > 0 {
		totalLoss /= float64(len(batch))
	}
	return StepResult{TDErrors: tdErrors, Loss: totalLoss}
}

// backpropAndUpdate runs a forward pass caching every layer's
// pre-activation input, then applies the chain rule backward from
// gradOutput (the loss gradient w.r.t. the head's final layer output),
// updating every layer's weights and biases in place by plain SGD.
func backpropAndUpdate(head *qnet.Head, input []float64, gradOutput []float64, lr float64) {
	layers := head.Layers
	n := len(layers)

	activations := make([][]float64, n+1)
	preActivations := make([][]float64, n)
	activations[0] = input
	for i, l := range layers {
		pre := make([]float64, len(l.Weights))
		for o, row := range l.Weights {
			sum := l.Biases[o]
			for j, w := range row {
				sum += w * activations[i][j]
			}
			pre[o] = sum
		}
		preActivations[i] = pre
		out := make([]float64, len(pre))
		for o, v := range pre {
			if i < n-1 && v < 0 {
				out[o] = 0
			} else {
				out[o] = v
			}
		}
		activations[i+1] = out
	}

	grad := gradOutput
	for i := n - 1; i >= 0; i-- {
		l := layers[i]
		pre := preActivations[i]
		layerGrad := make([]float64, len(grad))
		for o := range grad {
			g := grad[o]
			if i < n-1 && pre[o] < 0 {
				g = 0
			}
			layerGrad[o] = g
		}

		prevAct := activations[i]
		nextGrad := make([]float64, len(prevAct))
		for o, row := range l.Weights {
			g := layerGrad[o]
			if g == 0 {
				continue
			}
			l.Biases[o] -= lr * g
			for j := range row {
				nextGrad[j] += row[j] * g
				row[j] -= lr * g * prevAct[j]
			}
		}
		grad = nextGrad
	}
}
