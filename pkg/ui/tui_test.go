package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
)

type fakeCatalog struct {
	rows      []domain.PricedRow
	refreshes int
	err       error
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, query string) ([]domain.PricedRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.PricedRow
	for _, row := range f.rows {
		if strings.Contains(strings.ToLower(row.Product.Name), strings.ToLower(query)) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Refresh(ctx context.Context) error {
	f.refreshes++
	return nil
}

func pricedRow(id int, name, price string, source pricingDomain.Source) domain.PricedRow {
	d := pricingDomain.NoDecision()
	if price != "" {
		d = pricingDomain.Decision{Price: decimal.RequireFromString(price), Source: source}
	}
	return domain.PricedRow{
		MergedRow: domain.MergedRow{
			Product: domain.Product{ID: id, Name: name, Competitors: []domain.CompetitorPrice{
				{Column: "competitor_1_price", Price: decimal.NewFromInt(100), Present: true},
				{Column: "competitor_2_price"},
			}},
			Inventory: &domain.Inventory{ProductID: id, Level: 5, Demand: decimal.RequireFromString("0.9")},
			AvgPrice:  decimal.NewFromInt(100),
			MinPrice:  decimal.NewFromInt(100),
			MaxPrice:  decimal.NewFromInt(100),
		},
		Decision: d,
	}
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{rows: []domain.PricedRow{
		pricedRow(1, "Wireless Mouse", "110", pricingDomain.SourceRule),
		pricedRow(2, "USB Cable", "49.5", pricingDomain.SourceModel),
		pricedRow(3, "Mystery Box", "", pricingDomain.SourceNone),
	}}
}

// send applies msg and runs any resulting command once, feeding its message back.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	return feed(m, cmd)
}

func feed(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	switch out := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range out {
			m = feed(m, c)
		}
	case RowsMsg, ErrorMsg:
		next, _ := m.Update(out)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func readyModel(t *testing.T, catalog Catalog) Model {
	t.Helper()
	m := New("test")
	m.filter.Cursor.SetMode(cursor.CursorStatic)
	m.phase = PhaseStartup
	m = send(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	return send(t, m, ReadyMsg{Catalog: catalog})
}

func TestModel_ReadyLoadsRows(t *testing.T) {
	m := readyModel(t, testCatalog())

	if m.phase != PhaseDashboard {
		t.Fatalf("phase = %s, want dashboard", m.phase)
	}
	if m.products.Len() != 3 {
		t.Fatalf("rows = %d, want 3", m.products.Len())
	}
	if m.loading {
		t.Error("loading should be cleared")
	}
	view := m.View()
	for _, want := range []string{"Wireless Mouse", "110.00", "PRODUCTS (3)", "DETAIL #1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_Navigation(t *testing.T) {
	m := readyModel(t, testCatalog())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if row, _ := m.products.Selected(); row.ID != 2 {
		t.Errorf("selected = %d, want 2", row.ID)
	}
	m = send(t, m, runes("j"))
	m = send(t, m, runes("j"))
	if row, _ := m.products.Selected(); row.ID != 3 {
		t.Errorf("selected = %d, want 3 (clamped)", row.ID)
	}
	m = send(t, m, runes("k"))
	if row, _ := m.products.Selected(); row.ID != 2 {
		t.Errorf("selected = %d, want 2", row.ID)
	}
	if !strings.Contains(m.View(), "DETAIL #2") {
		t.Error("detail should follow the cursor")
	}
}

func TestModel_Filter(t *testing.T) {
	m := readyModel(t, testCatalog())

	m = send(t, m, runes("/"))
	if !m.filtering {
		t.Fatal("expected filter focus")
	}
	for _, r := range "usb" {
		m = send(t, m, runes(string(r)))
	}
	if m.query != "usb" {
		t.Fatalf("query = %q, want usb", m.query)
	}
	if m.products.Len() != 1 {
		t.Fatalf("rows = %d, want 1", m.products.Len())
	}

	// "q" is text while filtering, not quit.
	m = send(t, m, runes("q"))
	if m.quitting {
		t.Fatal("q should not quit while filtering")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filtering || m.query != "" {
		t.Errorf("filtering = %v, query = %q after esc", m.filtering, m.query)
	}
	if m.products.Len() != 3 {
		t.Errorf("rows = %d after clearing filter, want 3", m.products.Len())
	}
}

func TestModel_StaleRowsIgnored(t *testing.T) {
	m := readyModel(t, testCatalog())
	m.query = "mouse"

	next, _ := m.Update(RowsMsg{Query: "", Rows: nil})
	m = next.(Model)
	if m.products.Len() != 3 {
		t.Errorf("stale result replaced rows: len = %d", m.products.Len())
	}
}

func TestModel_RefreshAndErrors(t *testing.T) {
	catalog := testCatalog()
	m := readyModel(t, catalog)

	m = send(t, m, runes("r"))
	if catalog.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", catalog.refreshes)
	}

	catalog.err = errors.New("inventory file missing")
	m = send(t, m, runes("r"))
	if len(m.errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(m.errors))
	}
	if !strings.Contains(m.View(), "inventory file missing") {
		t.Error("error not rendered")
	}

	m = send(t, m, runes("e"))
	if len(m.errors) != 0 {
		t.Errorf("errors = %d after clear, want 0", len(m.errors))
	}
}

func TestModel_WelcomeAndStartup(t *testing.T) {
	started := make(chan struct{}, 1)
	OnStartModules = func() { started <- struct{}{} }
	defer func() { OnStartModules = nil }()

	m := New("test")
	m = send(t, m, runes("x"))
	if m.phase != PhaseStartup {
		t.Fatalf("phase = %s, want startup", m.phase)
	}
	<-started

	m = send(t, m, StartupMsg{Step: "artifact", Status: "failed", Message: "rule-based mode"})
	view := m.View()
	if !strings.Contains(view, "Failed") || !strings.Contains(view, "rule-based mode") {
		t.Errorf("startup view missing artifact failure:\n%s", view)
	}
}

func TestModel_Quit(t *testing.T) {
	m := readyModel(t, testCatalog())
	next, cmd := m.Update(runes("q"))
	if !next.(Model).quitting || cmd == nil {
		t.Error("q should quit")
	}
}

func TestProductRowFrom(t *testing.T) {
	row := ProductRowFrom(pricedRow(7, "Lamp", "95", pricingDomain.SourceRule))

	if row.Optimal != "95.00" || row.Source != "rule" {
		t.Errorf("optimal = %s source = %s", row.Optimal, row.Source)
	}
	if row.Competitors[0] != "100.00" || row.Competitors[1] != "-" {
		t.Errorf("competitors = %v", row.Competitors)
	}
	if row.Inventory != "5" || row.Demand != "0.90" || row.BaseCost != "-" {
		t.Errorf("inventory = %s demand = %s base = %s", row.Inventory, row.Demand, row.BaseCost)
	}

	none := ProductRowFrom(domain.PricedRow{
		MergedRow: domain.MergedRow{Product: domain.Product{ID: 8, Name: "Empty"}},
		Decision:  pricingDomain.NoDecision(),
	})
	if none.AvgPrice != "-" || none.Optimal != "-" || none.Inventory != "-" {
		t.Errorf("empty row = %+v", none)
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize(testCatalog().rows)
	if stats.Products != 3 || stats.Model != 1 || stats.Rule != 1 || stats.NoDecision != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
