package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
)

// LearnedModelStrategy prices with an externally trained scoring artifact.
// It makes exactly one load and one score attempt per call.
type LearnedModelStrategy[A any] struct {
	adapter ScoringAdapter[A]
}

// NewLearnedModelStrategy wraps a scoring adapter.
func NewLearnedModelStrategy[A any](adapter ScoringAdapter[A]) *LearnedModelStrategy[A] {
	return &LearnedModelStrategy[A]{adapter: adapter}
}

func (s *LearnedModelStrategy[A]) Source() domain.Source {
	return domain.SourceModel
}

func (s *LearnedModelStrategy[A]) Price(ctx context.Context, _ domain.PricingContext, features domain.FeatureVector) (decimal.Decimal, error) {
	art, err := s.adapter.Load(ctx)
	if err != nil {
		return decimal.Zero, apperror.Wrap(err, apperror.CodeArtifactLoadFailed, "load")
	}
	price, err := s.adapter.Score(ctx, art, features)
	if err != nil {
		return decimal.Zero, apperror.Wrap(err, apperror.CodeScoringFailed, "score")
	}
	return domain.RoundPrice(price), nil
}

// RuleBasedStrategy prices with a deterministic RulePolicy.
type RuleBasedStrategy struct {
	policy    domain.RulePolicy
	minMargin decimal.Decimal
}

// NewRuleBasedStrategy creates a rule-based strategy.
func NewRuleBasedStrategy(policy domain.RulePolicy, minMargin decimal.Decimal) *RuleBasedStrategy {
	return &RuleBasedStrategy{policy: policy, minMargin: minMargin}
}

func (s *RuleBasedStrategy) Source() domain.Source {
	return domain.SourceRule
}

// Price uses the original inputs of pc; features are not consulted.
func (s *RuleBasedStrategy) Price(_ context.Context, pc domain.PricingContext, _ domain.FeatureVector) (decimal.Decimal, error) {
	price, ok := s.policy.Price(pc.CompetitorPrices, pc.Inventory, pc.Demand, pc.BaseCost, s.minMargin)
	if !ok {
		return decimal.Zero, apperror.New(apperror.CodeNoCompetitorData)
	}
	return price, nil
}
