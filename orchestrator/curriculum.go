package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zapzap/zapzap/strategy"
)

// CurriculumPhase fixes the opponent pool for one stage of training
// (§4.8: "opponents for the current phase are fixed").
type CurriculumPhase struct {
	Name      string
	Opponents []func() strategy.Strategy
}

// CurriculumConfig is the threshold/bounds triplet the CLI exposes as
// --curriculum-win-rate/--curriculum-min-games/--curriculum-max-games,
// applied uniformly at every phase boundary.
type CurriculumConfig struct {
	WinRateThreshold float64
	MinGames         int
	MaxGames         int
}

// DefaultCurriculumConfig mirrors the genetic engine's conservative
// defaults: graduate once a clear majority of games are won, but never
// let a phase run forever if the bot plateaus.
func DefaultCurriculumConfig() CurriculumConfig {
	return CurriculumConfig{WinRateThreshold: 0.55, MinGames: 200, MaxGames: 2000}
}

// PhaseRecord is one completed phase's summary, kept for the persisted
// phase_history (§6's "Persisted state").
type PhaseRecord struct {
	Name    string  `json:"name"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
}

// Curriculum tracks progress through a fixed sequence of opponent
// phases, advancing when the bot's win rate clears Config's threshold
// after at least MinGames, and force-advancing at MaxGames regardless
// of win rate so a plateaued phase never runs forever (an Open
// Question resolved this way since nothing else in the batch/training
// loop would otherwise end it).
type Curriculum struct {
	Phases []CurriculumPhase
	Config CurriculumConfig

	CurrentPhase     int
	GamesInPhase     int
	WinsInPhase      int
	TotalGamesPlayed int
	PhaseHistory     []PhaseRecord
}

// NewCurriculum starts at phase 0 with empty counters.
func NewCurriculum(phases []CurriculumPhase, cfg CurriculumConfig) *Curriculum {
	return &Curriculum{Phases: phases, Config: cfg}
}

// Done reports whether every phase has been completed.
func (c *Curriculum) Done() bool {
	return c.CurrentPhase >= len(c.Phases)
}

// Current returns the active phase's opponent pool. Panics if Done;
// callers must check Done first.
func (c *Curriculum) Current() CurriculumPhase {
	return c.Phases[c.CurrentPhase]
}

// WinRate is the current phase's running win rate, 0 with no games
// played yet.
func (c *Curriculum) WinRate() float64 {
	if c.GamesInPhase == 0 {
		return 0
	}
	return float64(c.WinsInPhase) / float64(c.GamesInPhase)
}

// RecordBatch folds one batch round's results into the current phase's
// counters.
func (c *Curriculum) RecordBatch(games, wins int) {
	c.GamesInPhase += games
	c.WinsInPhase += wins
	c.TotalGamesPlayed += games
}

// MaybeAdvance checks the phase-advancement condition and, if met,
// closes out the current phase's record and moves to the next one,
// reporting whether it advanced.
func (c *Curriculum) MaybeAdvance() bool {
	if c.Done() {
		return false
	}

	meetsThreshold := c.GamesInPhase >= c.Config.MinGames && c.WinRate() >= c.Config.WinRateThreshold
	hitMax := c.Config.MaxGames > 0 && c.GamesInPhase >= c.Config.MaxGames
	if !meetsThreshold && !hitMax {
		return false
	}

	c.PhaseHistory = append(c.PhaseHistory, PhaseRecord{
		Name:    c.Phases[c.CurrentPhase].Name,
		Games:   c.GamesInPhase,
		WinRate: c.WinRate(),
	})
	c.CurrentPhase++
	c.GamesInPhase = 0
	c.WinsInPhase = 0
	return true
}

// CurriculumCheckpoint is the on-disk shape for the persisted
// curriculum state alongside a model directory.
type CurriculumCheckpoint struct {
	CurrentPhase     int           `json:"current_phase"`
	TotalGamesPlayed int           `json:"total_games_played"`
	PhaseHistory     []PhaseRecord `json:"phase_history"`
}

// SaveCurriculumCheckpoint writes c's resumable state to path,
// atomically (write-then-rename), matching the genetic engine's
// checkpoint convention.
func SaveCurriculumCheckpoint(c *Curriculum, path string) error {
	checkpoint := CurriculumCheckpoint{
		CurrentPhase:     c.CurrentPhase,
		TotalGamesPlayed: c.TotalGamesPlayed,
		PhaseHistory:     c.PhaseHistory,
	}
	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("orchestrator: marshal curriculum checkpoint: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("orchestrator: create checkpoint dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("orchestrator: write curriculum checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("orchestrator: rename curriculum checkpoint: %w", err)
	}
	return nil
}

// LoadCurriculumCheckpoint reads back a curriculum checkpoint written
// by SaveCurriculumCheckpoint. The caller supplies the phase
// definitions and config, since opponent factories cannot be
// serialized.
func LoadCurriculumCheckpoint(path string, phases []CurriculumPhase, cfg CurriculumConfig) (*Curriculum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: read curriculum checkpoint: %w", err)
	}
	var checkpoint CurriculumCheckpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("orchestrator: parse curriculum checkpoint: %w", err)
	}

	c := NewCurriculum(phases, cfg)
	c.CurrentPhase = checkpoint.CurrentPhase
	c.TotalGamesPlayed = checkpoint.TotalGamesPlayed
	c.PhaseHistory = checkpoint.PhaseHistory
	return c, nil
}
