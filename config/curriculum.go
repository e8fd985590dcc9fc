package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/zapzap/zapzap/orchestrator"
	"github.com/zapzap/zapzap/strategy"
)

// CurriculumFile is the HCL schema for curriculum phase definitions:
// the win-rate/games bounds apply uniformly at every phase boundary,
// one named `phase` block per opponent tier.
type CurriculumFile struct {
	WinRateThreshold float64      `hcl:"win_rate_threshold"`
	MinGames         int          `hcl:"min_games"`
	MaxGames         int          `hcl:"max_games"`
	Phases           []PhaseBlock `hcl:"phase,block"`
}

// PhaseBlock names one phase's fixed opponent pool by opponentFactories
// key (§4.8: "opponents for the current phase are fixed").
type PhaseBlock struct {
	Name      string   `hcl:"name,label"`
	Opponents []string `hcl:"opponents"`
}

// opponentFactories resolves a curriculum file's opponent names to
// strategy constructors, spanning the full difficulty ladder the
// strategy package implements.
var opponentFactories = map[string]func() strategy.Strategy{
	"easy":      func() strategy.Strategy { return strategy.NewEasy(1) },
	"medium":    func() strategy.Strategy { return strategy.Medium{} },
	"thibot":    func() strategy.Strategy { return strategy.NewThibot(strategy.DefaultThibotWeights()) },
	"hard":      func() strategy.Strategy { return strategy.Hard{} },
	"hard_vince": func() strategy.Strategy { return strategy.NewHardVince(strategy.DefaultVinceWeights()) },
}

// DefaultCurriculumFile is the ladder used when no curriculum file is
// given: each phase's opponent gets harder, graduating at a 55% win
// rate after at least 200 games, never running a phase past 2000.
func DefaultCurriculumFile() CurriculumFile {
	return CurriculumFile{
		WinRateThreshold: 0.55,
		MinGames:         200,
		MaxGames:         2000,
		Phases: []PhaseBlock{
			{Name: "easy", Opponents: []string{"easy"}},
			{Name: "medium", Opponents: []string{"medium"}},
			{Name: "thibot", Opponents: []string{"thibot"}},
			{Name: "hard_vince", Opponents: []string{"hard_vince"}},
		},
	}
}

// LoadCurriculumFile reads an HCL curriculum file at path, falling back
// to DefaultCurriculumFile if it doesn't exist.
func LoadCurriculumFile(path string) (CurriculumFile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultCurriculumFile(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return CurriculumFile{}, fmt.Errorf("config: parse curriculum file: %s", diags.Error())
	}

	var parsed CurriculumFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return CurriculumFile{}, fmt.Errorf("config: decode curriculum file: %s", diags.Error())
	}
	return parsed, nil
}

// ResolveOpponent looks up a curriculum opponent name (the same table
// BuildCurriculum resolves `phase` blocks against), for callers that
// need a single named opponent outside of a curriculum file, such as
// a fixed-opponent CLI run.
func ResolveOpponent(name string) (func() strategy.Strategy, bool) {
	factory, ok := opponentFactories[name]
	return factory, ok
}

// ResolveCurriculumFile turns a parsed CurriculumFile into a ready
// orchestrator.Curriculum, with every phase's opponent names resolved
// to strategy constructors.
func ResolveCurriculumFile(parsed CurriculumFile) (*orchestrator.Curriculum, error) {
	phases := make([]orchestrator.CurriculumPhase, len(parsed.Phases))
	for i, block := range parsed.Phases {
		opponents := make([]func() strategy.Strategy, len(block.Opponents))
		for j, name := range block.Opponents {
			factory, ok := ResolveOpponent(name)
			if !ok {
				return nil, fmt.Errorf("config: unknown curriculum opponent %q in phase %q", name, block.Name)
			}
			opponents[j] = factory
		}
		phases[i] = orchestrator.CurriculumPhase{Name: block.Name, Opponents: opponents}
	}

	cfg := orchestrator.CurriculumConfig{
		WinRateThreshold: parsed.WinRateThreshold,
		MinGames:         parsed.MinGames,
		MaxGames:         parsed.MaxGames,
	}
	return orchestrator.NewCurriculum(phases, cfg), nil
}

// BuildCurriculum loads a curriculum file and resolves it into a ready
// orchestrator.Curriculum.
func BuildCurriculum(path string) (*orchestrator.Curriculum, error) {
	parsed, err := LoadCurriculumFile(path)
	if err != nil {
		return nil, err
	}
	return ResolveCurriculumFile(parsed)
}
