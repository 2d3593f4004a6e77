package domain

import "github.com/shopspring/decimal"

// FeatureNames is the fixed feature order scoring artifacts are produced with.
var FeatureNames = []string{"avg_price", "min_price", "max_price", "inventory", "demand"}

// FeatureVector is derived per call from a PricingContext and never cached.
type FeatureVector struct {
	AvgPrice  decimal.Decimal
	MinPrice  decimal.Decimal
	MaxPrice  decimal.Decimal
	Inventory int
	Demand    decimal.Decimal
}

// DeriveFeatures computes avg, min and max over prices and carries inventory
// and demand unchanged. It returns false when prices is empty.
func DeriveFeatures(prices []decimal.Decimal, inventory int, demand decimal.Decimal) (FeatureVector, bool) {
	if len(prices) == 0 {
		return FeatureVector{}, false
	}

	return FeatureVector{
		AvgPrice:  Mean(prices),
		MinPrice:  decimal.Min(prices[0], prices[1:]...),
		MaxPrice:  decimal.Max(prices[0], prices[1:]...),
		Inventory: inventory,
		Demand:    demand,
	}, true
}

// Values returns the features in FeatureNames order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		f.AvgPrice.InexactFloat64(),
		f.MinPrice.InexactFloat64(),
		f.MaxPrice.InexactFloat64(),
		float64(f.Inventory),
		f.Demand.InexactFloat64(),
	}
}

// PriceRange returns max - min.
func (f FeatureVector) PriceRange() decimal.Decimal {
	return f.MaxPrice.Sub(f.MinPrice)
}

// Mean is the arithmetic mean of prices. It returns zero for no prices.
func Mean(prices []decimal.Decimal) decimal.Decimal {
	if len(prices) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, prices...).Div(decimal.NewFromInt(int64(len(prices))))
}
