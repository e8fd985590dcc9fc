package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zapzap/zapzap/orchestrator"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// progressMsg carries one Step's report into the dashboard.
type progressMsg orchestrator.ProgressReport

// doneMsg signals the training run has returned, successfully or not.
type doneMsg struct{ err error }

type dashboard struct {
	maxGames int
	bar      progress.Model
	last     orchestrator.ProgressReport
	err      error
	done     bool
}

func newDashboard(maxGames int) *dashboard {
	return &dashboard{
		maxGames: maxGames,
		bar:      progress.New(progress.WithDefaultGradient()),
	}
}

func (d *dashboard) Init() tea.Cmd { return nil }

func (d *dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		d.last = orchestrator.ProgressReport(msg)
		return d, nil
	case doneMsg:
		d.done = true
		d.err = msg.err
		return d, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return d, tea.Quit
		}
	}
	return d, nil
}

func (d *dashboard) View() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("zapzap self-play training"))
	b.WriteString("\n\n")

	fraction := 0.0
	if d.maxGames > 0 {
		fraction = float64(d.last.TotalGamesPlayed) / float64(d.maxGames)
	}
	b.WriteString(d.bar.ViewAs(clamp01(fraction)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %d/%d\n", labelStyle.Render("games:"), d.last.TotalGamesPlayed, d.maxGames))
	b.WriteString(fmt.Sprintf("%s %s (win rate %.1f%%)\n", labelStyle.Render("phase:"), d.last.CurriculumPhase, d.last.PhaseWinRate*100))
	b.WriteString(fmt.Sprintf("%s %.1f%%\n", labelStyle.Render("batch win rate:"), d.last.BatchWinRate*100))
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("train rounds:"), d.last.TrainRounds))
	b.WriteString(fmt.Sprintf("%s %.4f\n", labelStyle.Render("epsilon:"), d.last.Epsilon))
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("zap_zap calls this batch:"), d.last.BatchZapZapCalls))

	if d.done {
		if d.err != nil {
			b.WriteString(fmt.Sprintf("\n training stopped: %v\n", d.err))
		} else {
			b.WriteString("\n training complete\n")
		}
	} else {
		b.WriteString("\n(ctrl+c to stop and checkpoint)\n")
	}

	return b.String()
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
