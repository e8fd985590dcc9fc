package qnet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zapzap/zapzap/feature"
	"github.com/zapzap/zapzap/state"
)

// LayerArtifact is one layer's serialized form: shape is [out, in] (plus
// the bias vector, which shares the layer's out dimension).
type LayerArtifact struct {
	Shape  [2]int      `json:"shape"`
	Data   [][]float64 `json:"data"`
	Biases []float64   `json:"biases"`
}

// WeightsArtifact is weights.json's top-level shape: head name to its
// ordered layer list (§6 Model artifact format).
type WeightsArtifact map[string][]LayerArtifact

// ConfigArtifact is config.json's shape.
type ConfigArtifact struct {
	InputDim     int            `json:"input_dim"`
	HiddenUnits  []int          `json:"hidden_units"`
	LearningRate float64        `json:"learning_rate"`
	ActionDims   map[string]int `json:"action_dims"`
}

var headNames = [state.NumDecisionTypes]string{
	state.DecisionHandSize:   "hand_size",
	state.DecisionZapZap:     "zap_zap",
	state.DecisionPlayType:   "play_type",
	state.DecisionDrawSource: "draw_source",
}

// ToArtifact converts the network into weights.json's serializable shape.
func (n *Network) ToArtifact() WeightsArtifact {
	out := make(WeightsArtifact, len(n.Heads))
	for d, head := range n.Heads {
		layers := make([]LayerArtifact, len(head.Layers))
		for i, l := range head.Layers {
			layers[i] = LayerArtifact{
				Shape:  [2]int{len(l.Weights), len(l.Weights[0])},
				Data:   l.Weights,
				Biases: l.Biases,
			}
		}
		out[headNames[d]] = layers
	}
	return out
}

// FromArtifact reconstructs a Network from weights.json's shape.
func FromArtifact(a WeightsArtifact) (*Network, error) {
	var n Network
	for d := state.DecisionType(0); d < state.NumDecisionTypes; d++ {
		layers, ok := a[headNames[d]]
		if !ok {
			return nil, fmt.Errorf("qnet: artifact missing head %q", headNames[d])
		}
		built := make([]Layer, len(layers))
		for i, la := range layers {
			if la.Shape[0] != len(la.Data) || (len(la.Data) > 0 && la.Shape[1] != len(la.Data[0])) {
				return nil, fmt.Errorf("qnet: head %q layer %d shape mismatch", headNames[d], i)
			}
			built[i] = Layer{Weights: la.Data, Biases: la.Biases}
		}
		n.Heads[d] = Head{Layers: built}
	}
	return &n, nil
}

// BuildConfig returns the config.json payload for a network trained
// with the given learning rate.
func BuildConfig(learningRate float64) ConfigArtifact {
	actionDims := make(map[string]int, state.NumDecisionTypes)
	for d := state.DecisionType(0); d < state.NumDecisionTypes; d++ {
		actionDims[headNames[d]] = d.ActionCount()
	}
	return ConfigArtifact{
		InputDim:     feature.Dim,
		HiddenUnits:  append([]int(nil), HiddenLayers...),
		LearningRate: learningRate,
		ActionDims:   actionDims,
	}
}

// Save writes weights.json and config.json into dir, creating it if
// necessary, using a write-then-rename so a crash never leaves a
// truncated artifact (§6: "reload recovers exact behavior").
func Save(dir string, n *Network, cfg ConfigArtifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("qnet: create artifact dir: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(dir, "weights.json"), n.ToArtifact()); err != nil {
		return fmt.Errorf("qnet: save weights: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(dir, "config.json"), cfg); err != nil {
		return fmt.Errorf("qnet: save config: %w", err)
	}
	return nil
}

// Load reads weights.json and config.json from dir.
func Load(dir string) (*Network, ConfigArtifact, error) {
	var artifact WeightsArtifact
	if err := readJSON(filepath.Join(dir, "weights.json"), &artifact); err != nil {
		return nil, ConfigArtifact{}, fmt.Errorf("qnet: load weights: %w", err)
	}
	var cfg ConfigArtifact
	if err := readJSON(filepath.Join(dir, "config.json"), &cfg); err != nil {
		return nil, ConfigArtifact{}, fmt.Errorf("qnet: load config: %w", err)
	}
	n, err := FromArtifact(artifact)
	if err != nil {
		return nil, ConfigArtifact{}, err
	}
	return n, cfg, nil
}

func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return json.Unmarshal(data, v)
}
