package ui

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/pkg/ui/components"
)

// ProductRowFrom formats a priced row for display.
func ProductRowFrom(row domain.PricedRow) components.ProductRow {
	out := components.ProductRow{
		ID:          row.Product.ID,
		Name:        row.Product.Name,
		Competitors: make([]string, len(row.Product.Competitors)),
		Inventory:   "-",
		Demand:      "-",
		BaseCost:    "-",
		Optimal:     row.Decision.String(),
		Source:      string(row.Decision.Source),
	}
	for i, cp := range row.Product.Competitors {
		out.Competitors[i] = "-"
		if cp.Present {
			out.Competitors[i] = cp.Price.StringFixed(2)
		}
	}

	hasPrices := len(row.Product.Prices()) > 0
	out.AvgPrice = money(row.AvgPrice, hasPrices)
	out.MinPrice = money(row.MinPrice, hasPrices)
	out.MaxPrice = money(row.MaxPrice, hasPrices)
	out.PriceRange = money(row.PriceRange, hasPrices)

	if inv := row.Inventory; inv != nil {
		out.Inventory = strconv.Itoa(inv.Level)
		out.Demand = inv.Demand.StringFixed(2)
		out.BaseCost = money(inv.BaseCost, !inv.BaseCost.IsZero())
	}
	return out
}

// Summarize counts decisions by source.
func Summarize(rows []domain.PricedRow) components.Stats {
	stats := components.Stats{Products: len(rows)}
	for _, row := range rows {
		switch row.Decision.Source {
		case pricingDomain.SourceModel:
			stats.Model++
		case pricingDomain.SourceRule:
			stats.Rule++
		default:
			stats.NoDecision++
		}
	}
	return stats
}

func money(d decimal.Decimal, ok bool) string {
	if !ok {
		return "-"
	}
	return d.StringFixed(2)
}
