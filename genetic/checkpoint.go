package genetic

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zapzap/zapzap/strategy"
)

// CheckpointVersion is the current checkpoint format version.
const CheckpointVersion = "1.0"

// IndividualData is an Individual's serializable form: VinceWeights'
// fields marshal directly, so no intermediate encoding is needed.
type IndividualData struct {
	Weights   strategy.VinceWeights `json:"weights"`
	Fitness   float64               `json:"fitness"`
	Evaluated bool                  `json:"evaluated"`
}

// Checkpoint is a full snapshot of an Engine's state (§5 supplemented
// feature, grounded on the teacher's evolution/checkpoint.go).
type Checkpoint struct {
	Config       Config            `json:"config"`
	Generation   int               `json:"generation"`
	Population   []IndividualData  `json:"population"`
	BestEver     *IndividualData   `json:"best_ever,omitempty"`
	StatsHistory []GenerationStats `json:"stats_history"`
	RNGSeed      int64             `json:"rng_seed"`
	Timestamp    time.Time         `json:"timestamp"`
	Version      string            `json:"version"`
}

// SaveCheckpoint writes the engine's current state to path as JSON,
// via a temp-file-then-rename so a crash mid-write never leaves a
// truncated checkpoint on disk.
func (e *Engine) SaveCheckpoint(path string) error {
	if e.Population == nil {
		return fmt.Errorf("genetic: no population to checkpoint")
	}

	popData := make([]IndividualData, len(e.Population.Individuals))
	for i, ind := range e.Population.Individuals {
		popData[i] = IndividualData{Weights: ind.Weights, Fitness: ind.Fitness, Evaluated: ind.Evaluated}
	}

	var bestData *IndividualData
	if e.BestEver != nil {
		bestData = &IndividualData{Weights: e.BestEver.Weights, Fitness: e.BestEver.Fitness, Evaluated: e.BestEver.Evaluated}
	}

	checkpoint := Checkpoint{
		Config:       e.Config,
		Generation:   e.Population.Generation,
		Population:   popData,
		BestEver:     bestData,
		StatsHistory: e.StatsHistory,
		RNGSeed:      e.Config.Seed,
		Timestamp:    time.Now(),
		Version:      CheckpointVersion,
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("genetic: create checkpoint directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("genetic: marshal checkpoint: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("genetic: write checkpoint: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("genetic: finalize checkpoint: %w", err)
	}

	return nil
}

// LoadCheckpoint reads a checkpoint file written by SaveCheckpoint.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genetic: read checkpoint: %w", err)
	}
	var checkpoint Checkpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("genetic: unmarshal checkpoint: %w", err)
	}
	return &checkpoint, nil
}

// ResumeFromCheckpoint builds an Engine from a saved checkpoint, ready
// to continue Evolve from the saved generation.
func ResumeFromCheckpoint(path string) (*Engine, error) {
	checkpoint, err := LoadCheckpoint(path)
	if err != nil {
		return nil, err
	}

	e := NewEngine(checkpoint.Config)

	individuals := make([]*Individual, len(checkpoint.Population))
	for i, data := range checkpoint.Population {
		individuals[i] = &Individual{Weights: data.Weights, Fitness: data.Fitness, Evaluated: data.Evaluated}
	}
	e.Population = NewPopulation(individuals)
	e.Population.Generation = checkpoint.Generation

	if checkpoint.BestEver != nil {
		e.BestEver = &Individual{
			Weights:   checkpoint.BestEver.Weights,
			Fitness:   checkpoint.BestEver.Fitness,
			Evaluated: checkpoint.BestEver.Evaluated,
		}
	}
	e.StatsHistory = checkpoint.StatsHistory

	return e, nil
}

// AutoCheckpointer saves the engine's state every Interval generations
// during an Evolve run, driven from Engine.OnGenerationComplete.
type AutoCheckpointer struct {
	Engine    *Engine
	Path      string
	Interval  int
	LastSaved int
}

// NewAutoCheckpointer returns an AutoCheckpointer with no generation
// saved yet.
func NewAutoCheckpointer(e *Engine, path string, interval int) *AutoCheckpointer {
	return &AutoCheckpointer{Engine: e, Path: path, Interval: interval, LastSaved: -1}
}

// ShouldSave reports whether generation lands on a save boundary.
// Generation 0 is never saved on its own (InitializePopulation's
// stats already describe it at the start of the run).
func (ac *AutoCheckpointer) ShouldSave(generation int) bool {
	if ac.Interval <= 0 || generation == 0 {
		return false
	}
	return generation > ac.LastSaved && generation%ac.Interval == 0
}

// Save writes a checkpoint if generation is a save boundary.
func (ac *AutoCheckpointer) Save(generation int) error {
	if !ac.ShouldSave(generation) {
		return nil
	}
	if err := ac.Engine.SaveCheckpoint(ac.Path); err != nil {
		return err
	}
	ac.LastSaved = generation
	return nil
}

// SaveFinal writes a checkpoint unconditionally, for the final state
// after Evolve returns or on a SIGINT/SIGTERM-triggered shutdown.
func (ac *AutoCheckpointer) SaveFinal() error {
	return ac.Engine.SaveCheckpoint(ac.Path)
}
