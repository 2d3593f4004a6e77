package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	"github.com/fd1az/smart-pricing/pkg/ui/components"
)

// Catalog is what the dashboard reads prices from.
type Catalog interface {
	SearchProducts(ctx context.Context, query string) ([]domain.PricedRow, error)
	Refresh(ctx context.Context) error
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Loading modules
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

const maxErrors = 3

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "loading", "done", "failed"
	Detail string
}

var stepOrder = []string{"config", "catalog", "artifact"}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	products *components.ProductsComponent
	detail   *components.DetailComponent
	stats    *components.StatsComponent
	status   *components.StatusComponent
	filter   textinput.Model
	help     help.Model
	keys     KeyMap

	// Phase state
	phase        Phase
	welcomeStart time.Time
	startupSteps map[string]*StartupStep
	startupTime  time.Time

	// State
	catalog    Catalog
	query      string
	filtering  bool
	loading    bool
	quitting   bool
	width      int
	height     int
	lastUpdate time.Time
	errors     []ErrorEntry
	version    string
}

// New creates a new TUI model.
func New(version string) Model {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter by product name"
	filter.CharLimit = 64

	now := time.Now()
	return Model{
		products:     components.NewProductsComponent(15),
		detail:       components.NewDetailComponent(),
		stats:        components.NewStatsComponent(),
		status:       components.NewStatusComponent(),
		filter:       filter,
		help:         help.New(),
		keys:         DefaultKeyMap(),
		phase:        PhaseWelcome,
		welcomeStart: now,
		startupSteps: map[string]*StartupStep{
			"config":   {Name: "Loading configuration", Status: "pending"},
			"catalog":  {Name: "Loading catalog data", Status: "pending"},
			"artifact": {Name: "Loading scoring artifact", Status: "pending"},
		},
		startupTime: now,
		errors:      make([]ErrorEntry, 0, maxErrors),
		version:     version,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

func searchCmd(catalog Catalog, query string) tea.Cmd {
	return func() tea.Msg {
		rows, err := catalog.SearchProducts(context.Background(), query)
		if err != nil {
			return ErrorMsg{Error: err}
		}
		return RowsMsg{Query: query, Rows: rows}
	}
}

func refreshCmd(catalog Catalog, query string) tea.Cmd {
	return func() tea.Msg {
		if err := catalog.Refresh(context.Background()); err != nil {
			return ErrorMsg{Error: err}
		}
		return searchCmd(catalog, query)()
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.products.SetVisible(msg.Height - 16)

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m = m.startModules()
		}
		return m, tickCmd()

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
			step.Detail = msg.Message
		}

	case ReadyMsg:
		m.catalog = msg.Catalog
		m.phase = PhaseDashboard
		m.loading = true
		return m, searchCmd(m.catalog, m.query)

	case RowsMsg:
		// Drop results for a filter that has since changed.
		if msg.Query != m.query {
			return m, nil
		}
		m.loading = false
		m.setRows(msg.Rows)

	case StatusMsg:
		m.status.Update(msg.Status)

	case ErrorMsg:
		m.loading = false
		if msg.Error != nil {
			m.errors = append(m.errors, ErrorEntry{Message: msg.Error.Error(), Timestamp: time.Now()})
			if len(m.errors) > maxErrors {
				m.errors = m.errors[len(m.errors)-maxErrors:]
			}
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// While the filter has focus, keys edit the query.
	if m.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			next, cmd := m.requery()
			return next, cmd
		case tea.KeyEnter:
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		next, search := m.requery()
		return next, tea.Batch(cmd, search)
	}

	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	// During welcome phase, any other key skips to startup
	if m.phase == PhaseWelcome {
		m = m.startModules()
		return m, tickCmd()
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.products.ScrollUp()
		m.syncDetail()
	case key.Matches(msg, m.keys.Down):
		m.products.ScrollDown()
		m.syncDetail()
	case key.Matches(msg, m.keys.Filter):
		if m.catalog != nil {
			m.filtering = true
			return m, m.filter.Focus()
		}
	case key.Matches(msg, m.keys.Cancel):
		if m.query != "" {
			m.filter.SetValue("")
			next, cmd := m.requery()
			return next, cmd
		}
	case key.Matches(msg, m.keys.Refresh):
		if m.catalog != nil && !m.loading {
			m.loading = true
			return m, refreshCmd(m.catalog, m.query)
		}
	case key.Matches(msg, m.keys.Clear):
		m.errors = make([]ErrorEntry, 0, maxErrors)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// requery issues a search when the filter text changed.
func (m Model) requery() (Model, tea.Cmd) {
	q := strings.TrimSpace(m.filter.Value())
	if q == m.query || m.catalog == nil {
		return m, nil
	}
	m.query = q
	m.loading = true
	return m, searchCmd(m.catalog, q)
}

func (m Model) startModules() Model {
	m.phase = PhaseStartup
	m.startupTime = time.Now()
	// Trigger callback directly (don't use Send() from within Update)
	if OnStartModules != nil {
		go OnStartModules()
	}
	return m
}

func (m *Model) setRows(rows []domain.PricedRow) {
	display := make([]components.ProductRow, len(rows))
	for i, row := range rows {
		display[i] = ProductRowFrom(row)
	}
	m.products.Update(display, m.query)

	stats := Summarize(rows)
	stats.Errors = len(m.errors)
	m.stats.Update(stats)
	m.syncDetail()
	m.lastUpdate = time.Now()
}

func (m *Model) syncDetail() {
	if row, ok := m.products.Selected(); ok {
		m.detail.Update(&row)
		return
	}
	m.detail.Update(nil)
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		return m.renderStartupScreen()
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Smart Pricing "))
	b.WriteString("  ")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	if m.filtering || m.query != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	left := m.products.View()
	right := m.detail.View() + "\n\n" + m.status.View()

	if m.width > 100 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			BoxStyle.Width(m.width*3/5-2).Render(left),
			BoxStyle.Width(m.width*2/5-2).Render(right),
		))
	} else {
		width := max(m.width-4, 40)
		b.WriteString(BoxStyle.Width(width).Render(left))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(width).Render(right))
	}
	b.WriteString("\n\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		b.WriteString(ErrorStyle.Bold(true).Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (press 'e' to clear)"))
		b.WriteString("\n")
		for _, e := range m.errors {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				MutedValue.Render(e.Timestamp.Format("15:04:05")),
				ErrorStyle.Render(e.Message)))
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderStatusBar() string {
	var parts []string
	if m.version != "" {
		parts = append(parts, MutedValue.Render(m.version))
	}
	if m.loading {
		spinners := []string{"◐", "◓", "◑", "◒"}
		idx := int(time.Now().UnixMilli()/150) % len(spinners)
		parts = append(parts, StepLoading.Render(spinners[idx]+" Loading"))
	}
	if !m.lastUpdate.IsZero() {
		parts = append(parts, MutedValue.Render("Updated: "+m.lastUpdate.Format("15:04:05")))
	}
	return strings.Join(parts, "  │  ")
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	goldStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)

	elapsed := time.Since(m.welcomeStart)
	dots := strings.Repeat(".", int(elapsed.Milliseconds()/300)%4)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")

	logo := `
   ███████╗███╗   ███╗ █████╗ ██████╗ ████████╗
   ██╔════╝████╗ ████║██╔══██╗██╔══██╗╚══██╔══╝
   ███████╗██╔████╔██║███████║██████╔╝   ██║
   ╚════██║██║╚██╔╝██║██╔══██║██╔══██╗   ██║
   ███████║██║ ╚═╝ ██║██║  ██║██║  ██║   ██║
   ╚══════╝╚═╝     ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(MutedValue.Render("               P R I C I N G   D A S H B O A R D"))
	sb.WriteString("\n\n\n")
	sb.WriteString(goldStyle.Render("          Competitor-aware prices, model or rule"))
	sb.WriteString("\n\n\n")
	sb.WriteString(StepDone.Render(fmt.Sprintf("                  Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("            Press any key to skip, or wait..."))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading screen.
func (m Model) renderStartupScreen() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(TitleStyle.Render(" Smart Pricing "))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	for _, name := range stepOrder {
		step := m.startupSteps[name]

		var icon, statusText string
		var style lipgloss.Style
		switch step.Status {
		case "done":
			icon, statusText, style = "✓", "Ready", StepDone
		case "loading":
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon, statusText, style = spinners[idx], "Loading...", StepLoading
		case "failed":
			icon, statusText, style = "✗", "Failed", StepFailed
		default:
			icon, statusText, style = "○", "Pending", MutedValue
		}

		line := fmt.Sprintf("  %s %s %s", style.Render(icon), MutedValue.Render(step.Name), style.Render(statusText))
		if step.Detail != "" {
			line += MutedValue.Render(" (" + step.Detail + ")")
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(MutedValue.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n")

	return sb.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules
// should start. Set by main before the program runs.
var OnStartModules func()

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
