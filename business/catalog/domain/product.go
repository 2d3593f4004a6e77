// Package domain contains the catalog types: products with competitor
// quotes, inventory records and their merged view.
package domain

import (
	"github.com/shopspring/decimal"

	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
)

// Product is one catalog entry with its competitor observations.
// A competitor whose price is missing has Present == false.
type Product struct {
	ID          int
	Name        string
	Competitors []CompetitorPrice
}

// CompetitorPrice is a nullable competitor price column.
type CompetitorPrice struct {
	Column  string // e.g. "competitor_1_price"
	Price   decimal.Decimal
	Present bool
}

// Quotes returns the present competitor prices as quotes.
func (p Product) Quotes() []pricingDomain.CompetitorQuote {
	quotes := make([]pricingDomain.CompetitorQuote, 0, len(p.Competitors))
	for _, c := range p.Competitors {
		if c.Present {
			quotes = append(quotes, pricingDomain.CompetitorQuote{Source: c.Column, Price: c.Price})
		}
	}
	return quotes
}

// Prices returns the present competitor prices.
func (p Product) Prices() []decimal.Decimal {
	return pricingDomain.PricesOf(p.Quotes())
}

// Inventory is the internal stock and demand record for a product.
type Inventory struct {
	ProductID int
	Level     int
	Demand    decimal.Decimal
	BaseCost  decimal.Decimal
}

// DemandScore scales recent sales against the average: 0 when avgSales is
// zero, capped at 1.
func DemandScore(salesLastWeek, avgSales decimal.Decimal) decimal.Decimal {
	if avgSales.IsZero() {
		return decimal.Zero
	}
	return decimal.Min(salesLastWeek.Div(avgSales), decimal.NewFromInt(1))
}
