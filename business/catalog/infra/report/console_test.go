package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
)

func TestConsoleReporter(t *testing.T) {
	tests := []struct {
		name string
		run  func(r *ConsoleReporter)
		want []string
	}{
		{
			name: "quote_decided",
			run: func(r *ConsoleReporter) {
				r.ReportQuote(pricingDomain.PricingContext{
					CompetitorPrices: []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(102)},
					Inventory:        5,
					Demand:           decimal.RequireFromString("0.9"),
					BaseCost:         decimal.NewFromInt(50),
				}, pricingDomain.Decision{Price: decimal.RequireFromString("111.1"), Source: pricingDomain.SourceRule})
			},
			want: []string{"100, 102", "111.10 (rule)"},
		},
		{
			name: "quote_none",
			run: func(r *ConsoleReporter) {
				r.ReportQuote(pricingDomain.PricingContext{}, pricingDomain.NoDecision())
			},
			want: []string{"no decision"},
		},
		{
			name: "rows",
			run:  func(r *ConsoleReporter) { r.ReportRows(sampleRows()) },
			want: []string{"Phone", "110.00", "Cable", "none"},
		},
		{
			name: "batch",
			run: func(r *ConsoleReporter) {
				r.ReportBatch(domain.BatchSummary{RunID: "run-1", Rows: 3, Rule: 2, NoDecision: 1, NoStock: 1})
			},
			want: []string{"BATCH run-1", "Rule priced:    2", "1 without inventory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.run(NewConsoleReporter(&buf))
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}
