// Package main provides the zapzap-train CLI for self-play DRL training.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/zapzap/zapzap/config"
	"github.com/zapzap/zapzap/orchestrator"
	"github.com/zapzap/zapzap/strategy"
)

// CLI is the zapzap-train flag set (base spec §6).
type CLI struct {
	Games              int     `default:"100000" help:"Total self-play games to train for"`
	Strategies         string  `help:"Comma-separated fixed opponents for a non-curriculum run (easy,medium,hard,hard_vince); defaults to hard_vince"`
	DRL                bool    `default:"true" help:"Train the DRL network against self-play; false just exercises the worker pool for stats"`
	Pretrain           bool    `default:"true" help:"Pre-fill the replay buffer from HardVince imitation before self-play"`
	PretrainGames      int     `default:"2000" help:"Total imitation games played during pre-fill"`
	Curriculum         bool    `default:"true" help:"Advance opponents through a win-rate-gated curriculum instead of a fixed pool"`
	CurriculumFile     string  `help:"HCL curriculum file (built-in four-phase ladder if unset)"`
	CurriculumWinRate  float64 `default:"0.55" help:"Win rate required to advance a curriculum phase"`
	CurriculumMinGames int     `default:"200" help:"Minimum games before a phase can advance"`
	CurriculumMaxGames int     `default:"2000" help:"Force-advance a phase after this many games regardless of win rate"`
	Workers            int     `default:"8" help:"Self-play worker goroutines"`
	GamesPerBatch      int     `default:"32" help:"Games each worker plays per batch round"`
	Output             string  `default:"output/train" help:"Directory for checkpoints and the final model"`
	Seed               int64   `default:"0" help:"Random seed (0 = current time)"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("zapzap-train"),
		kong.Description("Train ZapZap's DRL agent via self-play, curriculum opponents, and HardVince imitation pre-fill."),
		kong.UsageOnError(),
	)

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})

	curriculum, err := buildCurriculum(cli)
	if err != nil {
		logger.Fatal("build curriculum", "error", err)
	}

	cfg := orchestrator.DefaultConfig()
	cfg.Workers = cli.Workers
	cfg.MaxConcurrent = cli.Workers
	cfg.GamesPerBatch = cli.GamesPerBatch
	cfg.Seed = cli.Seed
	if !cli.DRL {
		// Never cross a training boundary: self-play runs for stats
		// only, network weights stay at their random initialization.
		cfg.TrainEveryNGames = cli.Games + 1
	}

	o, err := orchestrator.NewOrchestrator(cfg, curriculum)
	if err != nil {
		logger.Fatal("build orchestrator", "error", err)
	}

	if err := os.MkdirAll(cli.Output, 0755); err != nil {
		logger.Fatal("create output directory", "error", err)
	}

	if cli.Pretrain && cli.DRL {
		fmt.Printf("Pre-filling replay buffer from HardVince imitation (%d games)...\n", cli.PretrainGames)
		if err := o.Prefill(strategy.DefaultVinceWeights(), cli.PretrainGames); err != nil {
			logger.Fatal("prefill", "error", err)
		}
	}

	program := tea.NewProgram(newDashboard(cli.Games))
	o.OnProgress = func(report orchestrator.ProgressReport) {
		program.Send(progressMsg(report))
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_, runErr := o.Run(ctx, cli.Games)
		if cpErr := o.Checkpoint(cli.Output); cpErr != nil {
			logger.Error("checkpoint", "error", cpErr)
		}
		program.Send(doneMsg{err: runErr})
	}()

	if _, err := program.Run(); err != nil {
		logger.Fatal("dashboard", "error", err)
	}
	// Quitting the dashboard (ctrl+c or q) stops training and waits for
	// the checkpoint before reporting it.
	cancel()
	<-finished

	fmt.Printf("Checkpoint written to %s\n", cli.Output)
}

// buildCurriculum resolves the CLI's opponent/curriculum flags into a
// ready orchestrator.Curriculum: either a win-rate-gated ladder loaded
// from an HCL file (or the built-in default), or a single fixed-pool
// phase that never advances when --curriculum=false.
func buildCurriculum(cli CLI) (*orchestrator.Curriculum, error) {
	if !cli.Curriculum {
		names := strings.Split(cli.Strategies, ",")
		if cli.Strategies == "" {
			names = []string{"hard_vince"}
		}
		opponents := make([]func() strategy.Strategy, len(names))
		for i, name := range names {
			factory, ok := config.ResolveOpponent(strings.TrimSpace(name))
			if !ok {
				return nil, fmt.Errorf("unknown opponent %q", name)
			}
			opponents[i] = factory
		}
		phase := orchestrator.CurriculumPhase{Name: "fixed", Opponents: opponents}
		fixedCfg := orchestrator.CurriculumConfig{WinRateThreshold: 2, MinGames: 1 << 30, MaxGames: 0}
		return orchestrator.NewCurriculum([]orchestrator.CurriculumPhase{phase}, fixedCfg), nil
	}

	if cli.CurriculumFile != "" {
		return config.BuildCurriculum(cli.CurriculumFile)
	}

	file := config.DefaultCurriculumFile()
	file.WinRateThreshold = cli.CurriculumWinRate
	file.MinGames = cli.CurriculumMinGames
	file.MaxGames = cli.CurriculumMaxGames
	return config.ResolveCurriculumFile(file)
}
