// Package domain contains the core domain types for the pricing context.
package domain

import (
	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/internal/apperror"
)

// CompetitorQuote is one competitor's observed price for a product.
type CompetitorQuote struct {
	Source string // e.g. "competitor_1"
	Price  decimal.Decimal
}

// PricesOf returns the prices of quotes in order.
func PricesOf(quotes []CompetitorQuote) []decimal.Decimal {
	prices := make([]decimal.Decimal, len(quotes))
	for i, q := range quotes {
		prices[i] = q.Price
	}
	return prices
}

// PricingContext is the full input to a pricing decision.
// An empty CompetitorPrices means no decision is possible.
// A zero BaseCost disables the margin floor.
type PricingContext struct {
	CompetitorPrices []decimal.Decimal
	Inventory        int
	Demand           decimal.Decimal // nominally [0, 1], not clamped
	BaseCost         decimal.Decimal
}

// Validate rejects inputs that ingestion or the REST layer must not pass on.
func (c PricingContext) Validate() error {
	if c.Inventory < 0 {
		return apperror.Validation(apperror.CodeInvalidInput, "inventory must not be negative")
	}
	if c.BaseCost.IsNegative() {
		return apperror.Validation(apperror.CodeInvalidInput, "base_cost must not be negative")
	}
	for _, p := range c.CompetitorPrices {
		if p.IsNegative() {
			return apperror.Validation(apperror.CodeInvalidInput, "competitor prices must not be negative")
		}
	}
	return nil
}

// Source records which strategy produced a price.
type Source string

const (
	SourceModel Source = "model"
	SourceRule  Source = "rule"
	SourceNone  Source = "none" // no decision was possible
)

// Decision is the outcome of pricing one context.
type Decision struct {
	Price  decimal.Decimal
	Source Source
}

// NoDecision is returned when no competitor prices were supplied.
func NoDecision() Decision {
	return Decision{Source: SourceNone}
}

// OK reports whether a price was decided.
func (d Decision) OK() bool {
	return d.Source != SourceNone && d.Source != ""
}

// String renders the price with exactly two fractional digits, or "-".
func (d Decision) String() string {
	if !d.OK() {
		return "-"
	}
	return d.Price.StringFixed(2)
}
