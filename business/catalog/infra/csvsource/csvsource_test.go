package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/internal/apperror"
)

const competitorCSV = `product_id,product_name,competitor_2_price,competitor_1_price,competitor_3_price
1,OnePlus Nord 5G,"₹19,999","₹20,499",
2,Boat Earbuds,$29.99,31,not available
`

const inventoryCSV = `product_id,inventory_level,demand_score,base_cost
1,5,0.9,15000
2,60.0,0.1,12
`

func TestParseProducts(t *testing.T) {
	products, err := ParseProducts(strings.NewReader(competitorCSV))
	if err != nil {
		t.Fatalf("ParseProducts() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("len = %d, want 2", len(products))
	}

	p := products[0]
	if p.ID != 1 || p.Name != "OnePlus Nord 5G" {
		t.Errorf("product = %d %q", p.ID, p.Name)
	}
	if len(p.Competitors) != 3 {
		t.Fatalf("competitors = %d, want 3", len(p.Competitors))
	}
	// Columns are ordered by competitor number, not file order.
	if p.Competitors[0].Column != "competitor_1_price" || !p.Competitors[0].Price.Equal(decimal.NewFromInt(20499)) {
		t.Errorf("competitor 1 = %+v", p.Competitors[0])
	}
	if !p.Competitors[1].Price.Equal(decimal.NewFromInt(19999)) {
		t.Errorf("competitor 2 = %+v", p.Competitors[1])
	}
	if p.Competitors[2].Present {
		t.Error("empty competitor 3 should be null")
	}

	if got := len(products[1].Prices()); got != 2 {
		t.Errorf("product 2 present prices = %d, want 2", got)
	}
}

func TestParseProducts_Errors(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		wantCode apperror.Code
	}{
		{name: "empty", csv: "", wantCode: apperror.CodeInvalidFormat},
		{name: "missing_name", csv: "product_id,competitor_1_price\n1,10\n", wantCode: apperror.CodeRequiredField},
		{name: "bad_id", csv: "product_id,product_name\nabc,x\n", wantCode: apperror.CodeInvalidFormat},
		{name: "ragged", csv: "product_id,product_name\n1,x,extra\n", wantCode: apperror.CodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProducts(strings.NewReader(tt.csv))
			if apperror.GetCode(err) != tt.wantCode {
				t.Errorf("code = %s, want %s (err %v)", apperror.GetCode(err), tt.wantCode, err)
			}
		})
	}
}

func TestParseInventory(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		wantLevel  int
		wantDemand string
		wantCost   string
	}{
		{
			name:       "demand_score_column",
			csv:        inventoryCSV,
			wantLevel:  5,
			wantDemand: "0.9",
			wantCost:   "15000",
		},
		{
			name:       "demand_from_sales",
			csv:        "product_id,inventory_level,sales_last_week,avg_sales,base_cost\n1,8,30,40,10\n",
			wantLevel:  8,
			wantDemand: "0.75",
			wantCost:   "10",
		},
		{
			name:       "demand_from_sales_capped",
			csv:        "product_id,inventory_level,sales_last_week,avg_sales\n1,8,90,40\n",
			wantLevel:  8,
			wantDemand: "1",
			wantCost:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := ParseInventory(strings.NewReader(tt.csv))
			if err != nil {
				t.Fatalf("ParseInventory() error = %v", err)
			}
			got := inv[0]
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %d, want %d", got.Level, tt.wantLevel)
			}
			if !got.Demand.Equal(decimal.RequireFromString(tt.wantDemand)) {
				t.Errorf("Demand = %s, want %s", got.Demand, tt.wantDemand)
			}
			if !got.BaseCost.Equal(decimal.RequireFromString(tt.wantCost)) {
				t.Errorf("BaseCost = %s, want %s", got.BaseCost, tt.wantCost)
			}
		})
	}
}

func TestParseInventory_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "no_demand_columns", csv: "product_id,inventory_level\n1,5\n"},
		{name: "fractional_inventory", csv: "product_id,inventory_level,demand_score\n1,5.5,0.2\n"},
		{name: "bad_demand", csv: "product_id,inventory_level,demand_score\n1,5,high\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseInventory(strings.NewReader(tt.csv)); err == nil {
				t.Error("ParseInventory() error = nil")
			}
		})
	}
}

func TestSource_LoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	compPath := filepath.Join(dir, "competitor_prices.csv")
	invPath := filepath.Join(dir, "inventory_demand.csv")
	if err := os.WriteFile(compPath, []byte(competitorCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(invPath, []byte(inventoryCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	src := New(compPath, invPath)
	products, err := src.LoadProducts(context.Background())
	if err != nil || len(products) != 2 {
		t.Fatalf("LoadProducts() = %d, %v", len(products), err)
	}
	inv, err := src.LoadInventory(context.Background())
	if err != nil || len(inv) != 2 || inv[1].Level != 60 {
		t.Fatalf("LoadInventory() = %+v, %v", inv, err)
	}

	_, err = New(filepath.Join(dir, "missing.csv"), invPath).LoadProducts(context.Background())
	if apperror.GetCode(err) != apperror.CodeDataSourceError {
		t.Errorf("missing file code = %s, want DATA_SOURCE_ERROR", apperror.GetCode(err))
	}
}
