package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DetailComponent renders the selected product's pricing inputs and decision.
type DetailComponent struct {
	row *ProductRow
}

// NewDetailComponent creates a new detail component.
func NewDetailComponent() *DetailComponent {
	return &DetailComponent{}
}

// Update sets the product to show; nil clears it.
func (d *DetailComponent) Update(row *ProductRow) {
	d.row = row
}

// View renders the detail panel.
func (d *DetailComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)

	if d.row == nil {
		return headerStyle.Render("DETAIL") + "\n\n" + dimStyle.Render("  Select a product")
	}
	row := d.row

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("DETAIL #%d", row.ID)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s\n\n", valueStyle.Render(row.Name)))

	b.WriteString(dimStyle.Render("  Competitors") + "\n")
	for i, price := range row.Competitors {
		b.WriteString(fmt.Sprintf("  ├─ #%d: %s\n", i+1, price))
	}
	b.WriteString(fmt.Sprintf("  Avg %s  Min %s  Max %s  Range %s\n\n", row.AvgPrice, row.MinPrice, row.MaxPrice, row.PriceRange))

	b.WriteString(fmt.Sprintf("  Inventory: %s\n", valueStyle.Render(row.Inventory)))
	b.WriteString(fmt.Sprintf("  Demand:    %s\n", valueStyle.Render(row.Demand)))
	b.WriteString(fmt.Sprintf("  Base cost: %s\n\n", valueStyle.Render(row.BaseCost)))

	b.WriteString(fmt.Sprintf("  Optimal price: %s (%s)\n",
		valueStyle.Render(row.Optimal), SourceStyle(row.Source).Render(row.Source)))
	return b.String()
}
