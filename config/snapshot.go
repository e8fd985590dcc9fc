package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zapzap/zapzap/genetic"
	"github.com/zapzap/zapzap/orchestrator"
)

// GeneSnapshot is one gene's resolved search band, named for human
// reading rather than indexed by geneIndex position.
type GeneSnapshot struct {
	Name    string  `yaml:"name"`
	MinMult float64 `yaml:"min_mult"`
	MaxMult float64 `yaml:"max_mult"`
}

// ConstraintSnapshot is the YAML form of a resolved constraint table,
// for diffing a loaded profile against its HCL source by eye.
type ConstraintSnapshot struct {
	Genes []GeneSnapshot `yaml:"genes"`
}

var geneNames = buildGeneNames()

func buildGeneNames() []string {
	names := make([]string, len(geneIndex))
	for name, idx := range geneIndex {
		names[idx] = name
	}
	return names
}

// SnapshotConstraints names each resolved constraint by its gene, in
// strategy.VinceWeights.ToVector order.
func SnapshotConstraints(constraints []genetic.GeneConstraint) ConstraintSnapshot {
	genes := make([]GeneSnapshot, len(constraints))
	for i, c := range constraints {
		name := "unknown"
		if i < len(geneNames) && geneNames[i] != "" {
			name = geneNames[i]
		}
		genes[i] = GeneSnapshot{Name: name, MinMult: c.MinMult, MaxMult: c.MaxMult}
	}
	return ConstraintSnapshot{Genes: genes}
}

// WriteConstraintSnapshot marshals a resolved constraint table to path
// as YAML.
func WriteConstraintSnapshot(constraints []genetic.GeneConstraint, path string) error {
	data, err := yaml.Marshal(SnapshotConstraints(constraints))
	if err != nil {
		return fmt.Errorf("config: marshal constraint snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write constraint snapshot: %w", err)
	}
	return nil
}

// CurriculumSnapshot is the YAML form of a curriculum's progress, a
// friendlier sibling of orchestrator.CurriculumCheckpoint's JSON.
type CurriculumSnapshot struct {
	CurrentPhase     int                         `yaml:"current_phase"`
	TotalGamesPlayed int                         `yaml:"total_games_played"`
	PhaseHistory     []orchestrator.PhaseRecord  `yaml:"phase_history"`
}

// WriteCurriculumSnapshot marshals a curriculum's current progress to
// path as YAML.
func WriteCurriculumSnapshot(c *orchestrator.Curriculum, path string) error {
	snapshot := CurriculumSnapshot{
		CurrentPhase:     c.CurrentPhase,
		TotalGamesPlayed: c.TotalGamesPlayed,
		PhaseHistory:     c.PhaseHistory,
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("config: marshal curriculum snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write curriculum snapshot: %w", err)
	}
	return nil
}
