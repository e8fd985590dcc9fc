// Package main provides the zapzap-optimize CLI for genetic weight tuning.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/zapzap/zapzap/config"
	"github.com/zapzap/zapzap/genetic"
	"github.com/zapzap/zapzap/strategy"
)

// CLI is the zapzap-optimize flag set (base spec §6).
type CLI struct {
	Generations     int     `default:"30" help:"Number of generations to evolve"`
	Population      int     `default:"50" help:"Population size"`
	Elite           int     `default:"5" help:"Elite individuals carried over unmodified each generation"`
	Mutation        float64 `default:"0.1" help:"Per-gene mutation probability"`
	MutationRange   float64 `default:"0.2" help:"Mutation step size as a fraction of each gene's current value"`
	Crossover       float64 `default:"0.7" help:"Blend-crossover probability (otherwise a parent is cloned)"`
	Games           int     `default:"2000" help:"Games per fitness evaluation"`
	Workers         int     `default:"0" help:"Concurrent evaluation workers (0 = runtime.NumCPU)"`
	Style           string  `default:"balanced" help:"Fitness style preset"`
	Constraints     string  `help:"HCL gene-constraint profile (DefaultConstraints if unset)"`
	Checkpoint      string  `help:"Resume from a checkpoint file"`
	CheckpointEvery int     `default:"5" help:"Auto-save a checkpoint every N generations (0 disables)"`
	Output          string  `default:"output/optimize" help:"Output directory for checkpoints and the final population"`
	Seed            int64   `default:"0" help:"Random seed (0 = current time)"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("zapzap-optimize"),
		kong.Description("Evolve HardVince's weight vector via genetic search against a fixed baseline."),
		kong.UsageOnError(),
	)

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})

	if err := os.MkdirAll(cli.Output, 0755); err != nil {
		logger.Fatal("create output directory", "error", err)
	}

	var engine *genetic.Engine
	if cli.Checkpoint != "" {
		fmt.Printf("Resuming from checkpoint: %s\n", cli.Checkpoint)
		var err error
		engine, err = genetic.ResumeFromCheckpoint(cli.Checkpoint)
		if err != nil {
			logger.Fatal("load checkpoint", "error", err)
		}
		engine.Config.Generations = cli.Generations
		engine.Config.Workers = cli.Workers
		fmt.Printf("Resumed at generation %d\n\n", engine.Population.Generation)
	} else {
		constraints, err := config.LoadConstraintProfile(cli.Constraints)
		if err != nil {
			logger.Fatal("load constraint profile", "error", err)
		}

		cfg := genetic.Config{
			PopulationSize: cli.Population,
			Generations:    cli.Generations,
			EliteCount:     cli.Elite,
			CrossoverRate:  cli.Crossover,
			MutationRate:   cli.Mutation,
			MutationRange:  cli.MutationRange,
			GamesPerEval:   cli.Games,
			Style:          cli.Style,
			Seed:           cli.Seed,
			Workers:        cli.Workers,
			Constraints:    constraints,
		}
		engine = genetic.NewEngine(cfg)
		engine.InitializePopulation()
	}

	if err := config.WriteConstraintSnapshot(engine.Config.Constraints, filepath.Join(cli.Output, "constraints.yaml")); err != nil {
		logger.Warn("write constraint snapshot", "error", err)
	}

	var autoCheckpointer *genetic.AutoCheckpointer
	checkpointPath := filepath.Join(cli.Output, "checkpoint.json")
	if cli.CheckpointEvery > 0 {
		autoCheckpointer = genetic.NewAutoCheckpointer(engine, checkpointPath, cli.CheckpointEvery)
	}

	program := tea.NewProgram(newDashboard(cli.Generations))
	engine.OnGenerationComplete = func(stats genetic.GenerationStats) {
		program.Send(progressMsg(stats))
		if autoCheckpointer != nil {
			if err := autoCheckpointer.Save(stats.Generation + 1); err != nil {
				logger.Warn("checkpoint save", "error", err)
			}
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		if autoCheckpointer != nil {
			if err := autoCheckpointer.SaveFinal(); err != nil {
				logger.Error("final checkpoint on interrupt", "error", err)
			}
		}
		os.Exit(130)
	}()

	go func() {
		engine.Evolve()
		program.Send(doneMsg{})
	}()

	if _, err := program.Run(); err != nil {
		logger.Fatal("dashboard", "error", err)
	}

	if autoCheckpointer != nil {
		if err := autoCheckpointer.SaveFinal(); err != nil {
			logger.Error("final checkpoint", "error", err)
		}
	}

	if err := saveResult(engine, cli.Output); err != nil {
		logger.Error("save optimizer result", "error", err)
	}

	if engine.BestEver != nil {
		fmt.Printf("\nBest fitness: %.4f (output: %s)\n", engine.BestEver.Fitness, cli.Output)
	}
}

// weightVectorResult is one evaluated weight vector: the vector itself
// plus the fitness it earned at revalidation game count.
type weightVectorResult struct {
	Weights strategy.VinceWeights `json:"weights"`
	Fitness float64               `json:"fitness"`
}

// optimizerResult is the genetic optimizer's output shape (base spec
// §6): the unevolved baseline vector and the best evolved vector, both
// evaluated at the same game count so their fitness is comparable, the
// run's full config, its per-generation stats history, and a
// completion timestamp.
type optimizerResult struct {
	Baseline        weightVectorResult        `json:"baseline"`
	Optimized       weightVectorResult        `json:"optimized"`
	Config          genetic.Config            `json:"config"`
	GenerationStats []genetic.GenerationStats `json:"generation_stats"`
	Timestamp       time.Time                 `json:"timestamp"`
}

// saveResult revalidates the default VinceWeights baseline at the same
// game count Evolve used for its own closing revalidation of BestEver,
// so the two fitness values are directly comparable, then writes both
// alongside the run's config and generation history.
func saveResult(engine *genetic.Engine, outputDir string) error {
	if engine.BestEver == nil {
		return nil
	}

	baselineWeights := strategy.DefaultVinceWeights()
	baselineStats := genetic.Evaluate(baselineWeights, engine.Config.GamesPerEval*2, engine.Rng.Int63(), engine.Config.Baseline)
	baselineFitness := genetic.Fitness(engine.Config.Style, baselineStats)

	result := optimizerResult{
		Baseline:        weightVectorResult{Weights: baselineWeights, Fitness: baselineFitness},
		Optimized:       weightVectorResult{Weights: engine.BestEver.Weights, Fitness: engine.BestEver.Fitness},
		Config:          engine.Config,
		GenerationStats: engine.StatsHistory,
		Timestamp:       time.Now(),
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal optimizer result: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, "result.json"), data, 0644)
}
