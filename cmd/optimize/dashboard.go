package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zapzap/zapzap/genetic"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// progressMsg carries one generation's stats into the dashboard.
type progressMsg genetic.GenerationStats

// doneMsg signals the evolution run has returned.
type doneMsg struct{ err error }

type dashboard struct {
	generations int
	bar         progress.Model
	last        genetic.GenerationStats
	err         error
	done        bool
}

func newDashboard(generations int) *dashboard {
	return &dashboard{
		generations: generations,
		bar:         progress.New(progress.WithDefaultGradient()),
	}
}

func (d *dashboard) Init() tea.Cmd { return nil }

func (d *dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		d.last = genetic.GenerationStats(msg)
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
	b.WriteString(headingStyle.Render("zapzap weight optimizer"))
	b.WriteString("\n\n")

	fraction := 0.0
	if d.generations > 0 {
		fraction = float64(d.last.Generation+1) / float64(d.generations)
	}
	b.WriteString(d.bar.ViewAs(clamp01(fraction)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %d/%d\n", labelStyle.Render("generation:"), d.last.Generation+1, d.generations))
	b.WriteString(fmt.Sprintf("%s %.4f\n", labelStyle.Render("best fitness:"), d.last.BestFitness))
	b.WriteString(fmt.Sprintf("%s %.4f\n", labelStyle.Render("avg fitness:"), d.last.AvgFitness))
	b.WriteString(fmt.Sprintf("%s %.4f\n", labelStyle.Render("diversity:"), d.last.Diversity))

	if d.done {
		if d.err != nil {
			b.WriteString(fmt.Sprintf("\n optimization stopped: %v\n", d.err))
		} else {
			b.WriteString("\n optimization complete\n")
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
