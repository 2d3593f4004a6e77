package domain

import (
	"time"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
)

// MergedRow is a product left-joined with its inventory record.
type MergedRow struct {
	Product   Product
	Inventory *Inventory // nil when the product has no inventory record

	// Price statistics over present competitor prices; zero when none.
	AvgPrice   decimal.Decimal
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
	PriceRange decimal.Decimal
}

// HasInventory reports whether an inventory record was joined.
func (r MergedRow) HasInventory() bool {
	return r.Inventory != nil
}

// Context builds the pricing input. It returns false when inventory is missing.
func (r MergedRow) Context() (pricingDomain.PricingContext, bool) {
	if r.Inventory == nil {
		return pricingDomain.PricingContext{}, false
	}
	return pricingDomain.PricingContext{
		CompetitorPrices: r.Product.Prices(),
		Inventory:        r.Inventory.Level,
		Demand:           r.Inventory.Demand,
		BaseCost:         r.Inventory.BaseCost,
	}, true
}

// Merge left-joins products with inventory on product id, keeping product
// order. The first inventory record wins for duplicated ids.
func Merge(products []Product, inventory []Inventory) []MergedRow {
	byID := make(map[int]*Inventory, len(inventory))
	for i := range inventory {
		if _, dup := byID[inventory[i].ProductID]; !dup {
			byID[inventory[i].ProductID] = &inventory[i]
		}
	}

	rows := make([]MergedRow, len(products))
	for i, p := range products {
		row := MergedRow{Product: p, Inventory: byID[p.ID]}
		if f, ok := pricingDomain.DeriveFeatures(p.Prices(), 0, decimal.Zero); ok {
			row.AvgPrice = f.AvgPrice
			row.MinPrice = f.MinPrice
			row.MaxPrice = f.MaxPrice
			row.PriceRange = f.PriceRange()
		}
		rows[i] = row
	}
	return rows
}

// PricedRow is a merged row with its pricing decision.
type PricedRow struct {
	MergedRow
	Decision pricingDomain.Decision
}

// BatchSummary describes one batch pricing run.
type BatchSummary struct {
	RunID      string
	Rows       int
	Model      int
	Rule       int
	NoDecision int
	NoStock    int // rows without an inventory record
	ReportPath string
	Duration   time.Duration
}
