package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/zapzap/zapzap/drl"
	"github.com/zapzap/zapzap/qnet"
	"github.com/zapzap/zapzap/strategy"
)

// ErrCurriculumDone is returned by Step once every curriculum phase has
// been completed; callers should stop the training loop.
var ErrCurriculumDone = errors.New("orchestrator: curriculum complete")

// Config holds the §4.8 main-loop parameters.
type Config struct {
	Workers               int
	MaxConcurrent         int
	GamesPerBatch         int
	TrainEveryNGames      int
	TrainIterations       int
	SyncEveryNTrains      int
	ReplayCapacityPerHead int
	Seed                  int64
}

// DefaultConfig mirrors the genetic engine's scale of defaults, tuned
// down to something a single machine can run workers*games_per_batch
// of per round.
func DefaultConfig() Config {
	return Config{
		Workers:               8,
		MaxConcurrent:         8,
		GamesPerBatch:         32,
		TrainEveryNGames:      1000,
		TrainIterations:       50,
		SyncEveryNTrains:      5,
		ReplayCapacityPerHead: 50000,
		Seed:                  0,
	}
}

// ProgressReport summarizes one Step, for the caller's progress
// callback (bar/dashboard, logging, checkpointing).
type ProgressReport struct {
	TotalGamesPlayed int
	BatchGames       int
	BatchWinRate     float64
	TrainRounds      int
	Epsilon          float64
	CurriculumPhase  string
	CurriculumDone   bool
	PhaseWinRate     float64
	BatchZapZapCalls int
}

// Orchestrator wires a worker Pool, a CentralBuffer, a Trainer and a
// Curriculum into the §4.8 training loop: dispatch a batch round, merge
// transitions and stats, train on train_every_n_games boundaries, sync
// weights every sync_every_n_trains training rounds.
type Orchestrator struct {
	RunID      string
	Config     Config
	Pool       *Pool
	Buffer     *CentralBuffer
	Trainer    *Trainer
	Curriculum *Curriculum
	OnProgress func(ProgressReport)

	totalGamesPlayed int
	gamesSinceTrain  int
	trainRounds      int
}

// NewOrchestrator builds a fresh online network, central buffer, worker
// pool and trainer, all seeded from cfg.Seed.
func NewOrchestrator(cfg Config, curriculum *Curriculum) (*Orchestrator, error) {
	online := qnet.New(cfg.Seed)
	buffer := NewCentralBuffer(cfg.ReplayCapacityPerHead)
	trainer := NewTrainer(online, buffer, cfg.Seed)

	pool, err := NewPool(cfg.Workers, cfg.MaxConcurrent, cfg.Seed, online.ToArtifact(), drl.EpsilonStart)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build pool: %w", err)
	}

	return &Orchestrator{
		RunID:      uuid.NewString(),
		Config:     cfg,
		Pool:       pool,
		Buffer:     buffer,
		Trainer:    trainer,
		Curriculum: curriculum,
	}, nil
}

// Prefill runs the imitation pre-fill pass (§4.8) against the central
// buffer before any self-play has happened.
func (o *Orchestrator) Prefill(weights strategy.VinceWeights, games int) error {
	return PrefillBuffer(o.Buffer, weights, o.Config.ReplayCapacityPerHead, games, o.Config.Seed)
}

// epsilonForGames is the exploration-decay schedule in terms of total
// games played, so a freshly recreated or newly synced worker always
// converges to the same epsilon a continuously-running one would have.
func epsilonForGames(games int) float64 {
	e := drl.EpsilonStart * math.Pow(drl.EpsilonDecay, float64(games))
	if e < drl.EpsilonFloor {
		return drl.EpsilonFloor
	}
	return e
}

// Step runs one batch round across every worker, merges the results
// into the central buffer and curriculum counters, trains whenever the
// total games played crosses the next train_every_n_games boundary, and
// syncs weights to the workers every sync_every_n_trains training
// rounds (§4.8 steps 1-4).
func (o *Orchestrator) Step(ctx context.Context) (ProgressReport, error) {
	if o.Curriculum.Done() {
		return ProgressReport{CurriculumDone: true}, ErrCurriculumDone
	}

	phase := o.Curriculum.Current()
	epsilon := epsilonForGames(o.totalGamesPlayed)
	weights := o.Trainer.Online.ToArtifact()

	msg := RunBatchMessage{
		BatchSize: o.Config.GamesPerBatch,
		Opponents: phase.Opponents,
		BaseSeed:  o.Config.Seed + int64(o.totalGamesPlayed)*int64(len(o.Pool.Workers)),
	}
	replies, err := o.Pool.RunBatchRound(ctx, msg, weights, epsilon)
	if err != nil {
		return ProgressReport{}, fmt.Errorf("orchestrator: batch round: %w", err)
	}

	batchGames, batchWins, batchZapZap := 0, 0, 0
	for _, reply := range replies {
		batchGames += reply.Stats.Games
		batchWins += reply.Stats.AgentWins
		batchZapZap += reply.Stats.ZapZapCalls
		for _, t := range reply.Transitions {
			o.Buffer.Add(t)
		}
	}

	o.totalGamesPlayed += batchGames
	o.gamesSinceTrain += batchGames
	o.Curriculum.RecordBatch(batchGames, batchWins)
	o.Curriculum.MaybeAdvance()

	for o.gamesSinceTrain >= o.Config.TrainEveryNGames {
		o.Trainer.RunIterations(o.Config.TrainIterations)
		o.gamesSinceTrain -= o.Config.TrainEveryNGames
		o.trainRounds++

		if o.trainRounds%o.Config.SyncEveryNTrains == 0 {
			o.Pool.BroadcastWeights(o.Trainer.Online.ToArtifact(), epsilonForGames(o.totalGamesPlayed))
		}
	}

	report := ProgressReport{
		TotalGamesPlayed: o.totalGamesPlayed,
		BatchGames:       batchGames,
		BatchWinRate:     winRate(batchWins, batchGames),
		TrainRounds:      o.trainRounds,
		Epsilon:          epsilonForGames(o.totalGamesPlayed),
		CurriculumPhase:  phase.Name,
		CurriculumDone:   o.Curriculum.Done(),
		PhaseWinRate:     o.Curriculum.WinRate(),
		BatchZapZapCalls: batchZapZap,
	}
	if o.OnProgress != nil {
		o.OnProgress(report)
	}
	return report, nil
}

// Run steps the orchestrator until either maxGames total games have
// been played, the curriculum completes, or ctx is canceled.
func (o *Orchestrator) Run(ctx context.Context, maxGames int) (ProgressReport, error) {
	var last ProgressReport
	for o.totalGamesPlayed < maxGames {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		report, err := o.Step(ctx)
		if err != nil {
			if errors.Is(err, ErrCurriculumDone) {
				return report, nil
			}
			return last, err
		}
		last = report
	}
	return last, nil
}

// Checkpoint saves the online network's weights and the curriculum's
// progress to dir, so training can resume from exactly this point.
func (o *Orchestrator) Checkpoint(dir string) error {
	cfg := qnet.BuildConfig(drl.LearningRate)
	if err := qnet.Save(dir, o.Trainer.Online, cfg); err != nil {
		return fmt.Errorf("orchestrator: save network: %w", err)
	}
	curriculumPath := filepath.Join(dir, "curriculum.json")
	if err := SaveCurriculumCheckpoint(o.Curriculum, curriculumPath); err != nil {
		return fmt.Errorf("orchestrator: save curriculum: %w", err)
	}
	return nil
}

func winRate(wins, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(wins) / float64(games)
}
