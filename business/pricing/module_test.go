package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/internal/config"
)

func TestRulePolicy_DefaultsMatchDomain(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	got := RulePolicy(cfg.Pricing.Rules)
	want := domain.DefaultRulePolicy()

	checks := []struct {
		name     string
		got, exp decimal.Decimal
	}{
		{"high_demand", got.HighDemand, want.HighDemand},
		{"low_demand", got.LowDemand, want.LowDemand},
		{"soft_demand", got.SoftDemand, want.SoftDemand},
		{"raise", got.Raise, want.Raise},
		{"cut", got.Cut, want.Cut},
		{"soft_cut", got.SoftCut, want.SoftCut},
	}
	for _, c := range checks {
		if !c.got.Equal(c.exp) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.exp)
		}
	}
	if got.HighDemandMaxInventory != want.HighDemandMaxInventory || got.LowDemandMinInventory != want.LowDemandMinInventory {
		t.Errorf("inventory thresholds = %d/%d, want %d/%d",
			got.HighDemandMaxInventory, got.LowDemandMinInventory,
			want.HighDemandMaxInventory, want.LowDemandMinInventory)
	}
	if !cfg.Pricing.MinMarginDecimal().Equal(domain.DefaultMinMargin) {
		t.Errorf("min margin = %s, want %s", cfg.Pricing.MinMarginDecimal(), domain.DefaultMinMargin)
	}
}
