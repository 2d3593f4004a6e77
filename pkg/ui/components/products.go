// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProductRow is a display-ready catalog row. Values are pre-formatted by the
// caller; the component does no pricing math.
type ProductRow struct {
	ID          int
	Name        string
	Competitors []string // "-" for missing prices
	AvgPrice    string
	MinPrice    string
	MaxPrice    string
	PriceRange  string
	Inventory   string
	Demand      string
	BaseCost    string
	Optimal     string
	Source      string // model, rule or none
}

// ProductsComponent renders a scrollable product table with a cursor.
type ProductsComponent struct {
	rows    []ProductRow
	cursor  int
	offset  int
	visible int
	filter  string
}

// NewProductsComponent creates a table showing up to visible rows at once.
func NewProductsComponent(visible int) *ProductsComponent {
	if visible < 1 {
		visible = 1
	}
	return &ProductsComponent{visible: visible}
}

// Update replaces the rows, keeping the cursor in range.
func (p *ProductsComponent) Update(rows []ProductRow, filter string) {
	p.rows = rows
	p.filter = filter
	if p.cursor >= len(rows) {
		p.cursor = max(len(rows)-1, 0)
	}
	p.clampOffset()
}

// SetVisible changes how many rows fit on screen.
func (p *ProductsComponent) SetVisible(n int) {
	p.visible = max(n, 1)
	p.clampOffset()
}

// Len returns the number of rows.
func (p *ProductsComponent) Len() int {
	return len(p.rows)
}

// Selected returns the row under the cursor.
func (p *ProductsComponent) Selected() (ProductRow, bool) {
	if len(p.rows) == 0 {
		return ProductRow{}, false
	}
	return p.rows[p.cursor], true
}

// ScrollUp moves the cursor up.
func (p *ProductsComponent) ScrollUp() {
	if p.cursor > 0 {
		p.cursor--
		p.clampOffset()
	}
}

// ScrollDown moves the cursor down.
func (p *ProductsComponent) ScrollDown() {
	if p.cursor < len(p.rows)-1 {
		p.cursor++
		p.clampOffset()
	}
}

func (p *ProductsComponent) clampOffset() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.visible {
		p.offset = p.cursor - p.visible + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// View renders the product table.
func (p *ProductsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#374151"))

	title := fmt.Sprintf("PRODUCTS (%d)", len(p.rows))
	if p.filter != "" {
		title += fmt.Sprintf(" matching %q", p.filter)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	if len(p.rows) == 0 {
		b.WriteString(dimStyle.Render("  No products"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  %-6s  %-24s  %10s  %10s  %6s\n", "ID", "Product", "Avg", "Optimal", "Source"))
	b.WriteString(dimStyle.Render("  "+strings.Repeat("─", 64)) + "\n")

	end := min(p.offset+p.visible, len(p.rows))
	for i := p.offset; i < end; i++ {
		row := p.rows[i]
		line := fmt.Sprintf("  %-6d  %-24s  %10s  %10s  %s",
			row.ID, truncate(row.Name, 24), row.AvgPrice, row.Optimal, SourceStyle(row.Source).Render(fmt.Sprintf("%6s", row.Source)))
		if i == p.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if len(p.rows) > p.visible {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d-%d of %d", p.offset+1, end, len(p.rows))))
	}
	return b.String()
}

// SourceStyle colours a decision source.
func SourceStyle(source string) lipgloss.Style {
	switch source {
	case "model":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	case "rule":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
