package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
)

const rule = "================================================================================"

// ConsoleReporter prints decisions and batch summaries for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a ConsoleReporter; nil out means stdout.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

// ReportQuote prints a single decision with its inputs.
func (r *ConsoleReporter) ReportQuote(pc pricingDomain.PricingContext, d pricingDomain.Decision) {
	prices := make([]string, len(pc.CompetitorPrices))
	for i, p := range pc.CompetitorPrices {
		prices[i] = p.String()
	}

	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, "PRICE QUOTE")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Competitors:    %s\n", strings.Join(prices, ", "))
	fmt.Fprintf(r.out, "Inventory:      %d\n", pc.Inventory)
	fmt.Fprintf(r.out, "Demand:         %s\n", pc.Demand.String())
	fmt.Fprintf(r.out, "Base cost:      %s\n", pc.BaseCost.StringFixed(2))
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	if d.OK() {
		fmt.Fprintf(r.out, "Optimal price:  %s (%s)\n", d.Price.StringFixed(2), d.Source)
	} else {
		fmt.Fprintln(r.out, "Optimal price:  no decision (no competitor prices)")
	}
	fmt.Fprintln(r.out, rule)
}

// ReportRows prints priced rows as an aligned table.
func (r *ConsoleReporter) ReportRows(rows []domain.PricedRow) {
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ID\tProduct\tAvg\tMin\tMax\tStock\tDemand\tOptimal\tSource\t")
	for _, row := range rows {
		stock, demand := "-", "-"
		if row.Inventory != nil {
			stock = fmt.Sprintf("%d", row.Inventory.Level)
			demand = row.Inventory.Demand.StringFixed(2)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.Product.ID, row.Product.Name,
			row.AvgPrice.StringFixed(2), row.MinPrice.StringFixed(2), row.MaxPrice.StringFixed(2),
			stock, demand, row.Decision.String(), row.Decision.Source)
	}
	_ = tw.Flush()
}

// ReportBatch prints a batch run summary.
func (r *ConsoleReporter) ReportBatch(s domain.BatchSummary) {
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "BATCH %s\n", s.RunID)
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Rows:           %d\n", s.Rows)
	fmt.Fprintf(r.out, "Model priced:   %d\n", s.Model)
	fmt.Fprintf(r.out, "Rule priced:    %d\n", s.Rule)
	fmt.Fprintf(r.out, "No decision:    %d (%d without inventory)\n", s.NoDecision, s.NoStock)
	fmt.Fprintf(r.out, "Report:         %s\n", s.ReportPath)
	fmt.Fprintf(r.out, "Duration:       %s\n", s.Duration)
	fmt.Fprintln(r.out, rule)
}
