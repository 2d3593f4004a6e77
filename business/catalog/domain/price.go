package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CleanPrice parses a scraped price cell such as "₹19,999" or "$199.99"
// by keeping only digits and dots. Empty or unparsable cells return false.
func CleanPrice(raw string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
