// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SourceStatus is the state of one pricing input (catalog files, artifact).
type SourceStatus struct {
	Name    string
	OK      bool
	Detail  string
	Updated time.Time
}

// StatusComponent renders input status.
type StatusComponent struct {
	sources []SourceStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{
		sources: make([]SourceStatus, 0),
	}
}

// Update updates a source's status.
func (s *StatusComponent) Update(status SourceStatus) {
	for i, src := range s.sources {
		if src.Name == status.Name {
			s.sources[i] = status
			return
		}
	}
	s.sources = append(s.sources, status)
}

// View renders the status component.
func (s *StatusComponent) View() string {
	if len(s.sources) == 0 {
		return "No sources"
	}

	var result string
	for _, src := range s.sources {
		status := "● Ready"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
		if !src.OK {
			status = "○ Unavailable"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
		}

		line := fmt.Sprintf("├─ %s: %s", src.Name, style.Render(status))
		if src.Detail != "" {
			line += fmt.Sprintf(" (%s)", src.Detail)
		}
		if !src.Updated.IsZero() {
			line += " " + src.Updated.Format("15:04:05")
		}
		result += line + "\n"
	}

	return result
}
