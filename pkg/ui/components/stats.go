// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats summarises the decisions on screen.
type Stats struct {
	Products   int
	Model      int
	Rule       int
	NoDecision int
	Errors     int
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	modelRate := float64(0)
	if priced := s.stats.Model + s.stats.Rule; priced > 0 {
		modelRate = float64(s.stats.Model) / float64(priced) * 100
	}

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Products: %s  │  Model: %s (%.1f%%)  │  Rule: %s  │  No decision: %s  │  Errors: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Products)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Model)),
			modelRate,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Rule)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.NoDecision)),
			errorsDisplay,
		)
}
