package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "rupee_with_comma", raw: "₹19,999", want: "19999", wantOK: true},
		{name: "dollar_cents", raw: "$199.99", want: "199.99", wantOK: true},
		{name: "plain", raw: "1500", want: "1500", wantOK: true},
		{name: "spaces", raw: "  42.50 ", want: "42.5", wantOK: true},
		{name: "empty", raw: "", wantOK: false},
		{name: "nan", raw: "NaN", wantOK: false},
		{name: "two_dots", raw: "1.2.3", wantOK: false},
		{name: "only_symbol", raw: "₹", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanPrice(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("CleanPrice(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("CleanPrice(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDemandScore(t *testing.T) {
	tests := []struct {
		name     string
		sales    string
		avgSales string
		want     string
	}{
		{name: "half", sales: "50", avgSales: "100", want: "0.5"},
		{name: "capped", sales: "300", avgSales: "100", want: "1"},
		{name: "zero_average", sales: "10", avgSales: "0", want: "0"},
		{name: "no_sales", sales: "0", avgSales: "20", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DemandScore(decimal.RequireFromString(tt.sales), decimal.RequireFromString(tt.avgSales))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("DemandScore() = %s, want %s", got, tt.want)
			}
		})
	}
}

func price(v string) CompetitorPrice {
	return CompetitorPrice{Price: decimal.RequireFromString(v), Present: true}
}

func TestMerge(t *testing.T) {
	products := []Product{
		{ID: 1, Name: "Phone", Competitors: []CompetitorPrice{price("100"), price("120"), {}}},
		{ID: 2, Name: "Case", Competitors: []CompetitorPrice{{}, {}, {}}},
		{ID: 3, Name: "Charger", Competitors: []CompetitorPrice{price("20")}},
	}
	inventory := []Inventory{
		{ProductID: 1, Level: 5, Demand: decimal.RequireFromString("0.9"), BaseCost: decimal.NewFromInt(50)},
		{ProductID: 2, Level: 60, Demand: decimal.RequireFromString("0.1")},
		{ProductID: 1, Level: 999},
	}

	rows := Merge(products, inventory)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	phone := rows[0]
	if !phone.HasInventory() || phone.Inventory.Level != 5 {
		t.Errorf("phone inventory = %+v, want first record", phone.Inventory)
	}
	if !phone.AvgPrice.Equal(decimal.NewFromInt(110)) || !phone.PriceRange.Equal(decimal.NewFromInt(20)) {
		t.Errorf("phone stats avg=%s range=%s", phone.AvgPrice, phone.PriceRange)
	}
	pc, ok := phone.Context()
	if !ok || len(pc.CompetitorPrices) != 2 || pc.Inventory != 5 {
		t.Errorf("phone context = %+v, %v", pc, ok)
	}

	if pc, ok := rows[1].Context(); !ok || len(pc.CompetitorPrices) != 0 {
		t.Errorf("case context = %+v, %v; want empty prices", pc, ok)
	}
	if !rows[1].AvgPrice.IsZero() {
		t.Errorf("case avg = %s, want 0", rows[1].AvgPrice)
	}

	if rows[2].HasInventory() {
		t.Error("charger should have no inventory")
	}
	if _, ok := rows[2].Context(); ok {
		t.Error("Context() ok for row without inventory")
	}
}
