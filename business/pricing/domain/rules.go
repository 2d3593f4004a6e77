package domain

import "github.com/shopspring/decimal"

// PriceDecimals is the number of fractional digits every decided price carries.
const PriceDecimals = 2

// DefaultMinMargin is the required profit over base cost.
var DefaultMinMargin = decimal.RequireFromString("0.10")

// Rule names the branch of the rule-based policy that fired.
type Rule string

const (
	RuleHighDemandLowStock Rule = "high_demand_low_stock"
	RuleLowDemandOverstock Rule = "low_demand_overstock"
	RuleSoftDemand         Rule = "soft_demand"
	RuleNone               Rule = "none"
)

// RulePolicy holds the thresholds and adjustments of the rule-based optimizer.
// Rules are evaluated in order and the first match wins.
type RulePolicy struct {
	HighDemand             decimal.Decimal // demand strictly above this...
	HighDemandMaxInventory int             // ...with inventory strictly below this raises
	LowDemand              decimal.Decimal // demand strictly below this...
	LowDemandMinInventory  int             // ...with inventory strictly above this cuts
	SoftDemand             decimal.Decimal // otherwise demand below this soft-cuts

	Raise   decimal.Decimal
	Cut     decimal.Decimal
	SoftCut decimal.Decimal
}

// DefaultRulePolicy returns the standard business policy.
func DefaultRulePolicy() RulePolicy {
	return RulePolicy{
		HighDemand:             decimal.RequireFromString("0.8"),
		HighDemandMaxInventory: 10,
		LowDemand:              decimal.RequireFromString("0.3"),
		LowDemandMinInventory:  50,
		SoftDemand:             decimal.RequireFromString("0.5"),
		Raise:                  decimal.RequireFromString("0.10"),
		Cut:                    decimal.RequireFromString("-0.10"),
		SoftCut:                decimal.RequireFromString("-0.05"),
	}
}

// Adjustment returns the relative price adjustment and the rule that produced it.
func (p RulePolicy) Adjustment(inventory int, demand decimal.Decimal) (decimal.Decimal, Rule) {
	switch {
	case demand.GreaterThan(p.HighDemand) && inventory < p.HighDemandMaxInventory:
		return p.Raise, RuleHighDemandLowStock
	case demand.LessThan(p.LowDemand) && inventory > p.LowDemandMinInventory:
		return p.Cut, RuleLowDemandOverstock
	case demand.LessThan(p.SoftDemand):
		return p.SoftCut, RuleSoftDemand
	default:
		return decimal.Zero, RuleNone
	}
}

// Price applies the policy: the mean competitor price adjusted by the first
// matching rule, floored at baseCost*(1+minMargin), rounded to two places.
// It returns false when prices is empty.
func (p RulePolicy) Price(prices []decimal.Decimal, inventory int, demand, baseCost, minMargin decimal.Decimal) (decimal.Decimal, bool) {
	if len(prices) == 0 {
		return decimal.Zero, false
	}

	adjustment, _ := p.Adjustment(inventory, demand)
	candidate := Mean(prices).Mul(decimal.NewFromInt(1).Add(adjustment))
	floor := baseCost.Mul(decimal.NewFromInt(1).Add(minMargin))

	return RoundPrice(decimal.Max(candidate, floor)), true
}

// RuleBasedPrice prices with DefaultRulePolicy.
func RuleBasedPrice(prices []decimal.Decimal, inventory int, demand, baseCost, minMargin decimal.Decimal) (decimal.Decimal, bool) {
	return DefaultRulePolicy().Price(prices, inventory, demand, baseCost, minMargin)
}

// RoundPrice rounds half to even at two fractional digits.
func RoundPrice(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(PriceDecimals)
}
