// Package report writes priced catalog rows to CSV or XLSX files.
package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
)

// Writer persists a batch report.
type Writer interface {
	Write(ctx context.Context, rows []domain.PricedRow) error
	Path() string
}

// New returns a writer for format "csv" or "xlsx".
func New(format, path string) (Writer, error) {
	switch format {
	case "csv":
		return NewCSVWriter(path), nil
	case "xlsx":
		return NewXLSXWriter(path), nil
	default:
		return nil, apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("unknown report format %q", format))
	}
}

// cell is a report value: numeric cells keep their decimal, blanks are nulls.
type cell struct {
	text    string
	number  *decimal.Decimal
	integer *int
	fixed   bool // render number with two fractional digits
}

func (c cell) String() string {
	switch {
	case c.number != nil && c.fixed:
		return c.number.StringFixed(2)
	case c.number != nil:
		return c.number.String()
	case c.integer != nil:
		return strconv.Itoa(*c.integer)
	default:
		return c.text
	}
}

func text(s string) cell            { return cell{text: s} }
func integer(n int) cell            { return cell{integer: &n} }
func number(d decimal.Decimal) cell { return cell{number: &d} }
func price(d decimal.Decimal) cell  { return cell{number: &d, fixed: true} }
func blank() cell                   { return cell{} }

// header returns the column names; competitor columns come from the first row.
func header(rows []domain.PricedRow) []string {
	cols := []string{"product_id", "product_name"}
	if len(rows) > 0 {
		for _, c := range rows[0].Product.Competitors {
			cols = append(cols, c.Column)
		}
	}
	return append(cols,
		"inventory_level", "demand_score", "base_cost",
		"avg_price", "min_price", "max_price", "price_range",
		"predicted_optimal_price", "price_source",
	)
}

func cells(row domain.PricedRow) []cell {
	out := []cell{integer(row.Product.ID), text(row.Product.Name)}
	for _, c := range row.Product.Competitors {
		if c.Present {
			out = append(out, number(c.Price))
		} else {
			out = append(out, blank())
		}
	}

	if inv := row.Inventory; inv != nil {
		out = append(out, integer(inv.Level), number(inv.Demand), number(inv.BaseCost))
	} else {
		out = append(out, blank(), blank(), blank())
	}

	if len(row.Product.Prices()) > 0 {
		out = append(out, number(row.AvgPrice), number(row.MinPrice), number(row.MaxPrice), number(row.PriceRange))
	} else {
		out = append(out, blank(), blank(), blank(), blank())
	}

	if row.Decision.OK() {
		out = append(out, price(row.Decision.Price), text(string(row.Decision.Source)))
	} else {
		out = append(out, blank(), text(string(row.Decision.Source)))
	}
	return out
}
