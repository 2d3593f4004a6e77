// Package app contains the catalog service: lookups, ad-hoc quotes and batch
// pricing over merged catalog data.
package app

import (
	"context"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
)

// DataSource provides raw catalog data.
type DataSource interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
	LoadInventory(ctx context.Context) ([]domain.Inventory, error)
}

// Decider makes pricing decisions.
type Decider interface {
	Decide(ctx context.Context, pc pricingDomain.PricingContext) pricingDomain.Decision
	DecideBatch(ctx context.Context, batch []pricingDomain.PricingContext) []pricingDomain.Decision
}

// ReportWriter persists batch results.
type ReportWriter interface {
	Write(ctx context.Context, rows []domain.PricedRow) error
	Path() string
}
