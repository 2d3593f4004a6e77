// Package app contains the price decision engine and its strategy ports.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/pricing/domain"
)

// Strategy produces a price for a context whose features are already derived.
type Strategy interface {
	// Source labels decisions made by this strategy.
	Source() domain.Source
	// Price returns a price or an error. Errors from a primary strategy send
	// the engine to its fallback.
	Price(ctx context.Context, pc domain.PricingContext, features domain.FeatureVector) (decimal.Decimal, error)
}

// ScoringAdapter loads an opaque artifact of type A and scores with it.
type ScoringAdapter[A any] interface {
	Load(ctx context.Context) (A, error)
	Score(ctx context.Context, artifact A, features domain.FeatureVector) (decimal.Decimal, error)
}
