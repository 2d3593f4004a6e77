// Package csvsource reads catalog data from CSV files.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
)

var competitorColumn = regexp.MustCompile(`^competitor_(\d+)_price$`)

// Source reads competitor prices and inventory from two CSV files.
type Source struct {
	competitorPath string
	inventoryPath  string
}

// New creates a CSV source.
func New(competitorPath, inventoryPath string) *Source {
	return &Source{competitorPath: competitorPath, inventoryPath: inventoryPath}
}

// LoadProducts reads the competitor price file.
func (s *Source) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := readFile(ctx, s.competitorPath, func(r io.Reader) error {
		var err error
		out, err = ParseProducts(r)
		return err
	})
	return out, err
}

// LoadInventory reads the inventory file.
func (s *Source) LoadInventory(ctx context.Context) ([]domain.Inventory, error) {
	var out []domain.Inventory
	err := readFile(ctx, s.inventoryPath, func(r io.Reader) error {
		var err error
		out, err = ParseInventory(r)
		return err
	})
	return out, err
}

func readFile(ctx context.Context, path string, parse func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return apperror.New(apperror.CodeDataSourceError, apperror.WithContext(path), apperror.WithCause(err))
	}
	defer f.Close()

	if err := parse(f); err != nil {
		return apperror.Wrap(err, apperror.CodeDataSourceError, path)
	}
	return nil
}

// ParseProducts parses rows of product_id, product_name and any number of
// competitor_N_price columns, ordered by N. Unparsable price cells are null.
func ParseProducts(r io.Reader) ([]domain.Product, error) {
	header, records, err := readAll(r)
	if err != nil {
		return nil, err
	}

	idCol, err := requireColumn(header, "product_id")
	if err != nil {
		return nil, err
	}
	nameCol, err := requireColumn(header, "product_name")
	if err != nil {
		return nil, err
	}

	type compCol struct {
		n   int
		idx int
		key string
	}
	var comps []compCol
	for name, idx := range header {
		if m := competitorColumn.FindStringSubmatch(name); m != nil {
			n, _ := strconv.Atoi(m[1])
			comps = append(comps, compCol{n: n, idx: idx, key: name})
		}
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i].n < comps[j].n })

	products := make([]domain.Product, 0, len(records))
	for line, rec := range records {
		id, err := parseInt(rec[idCol])
		if err != nil {
			return nil, invalidRow(line, "product_id", err)
		}
		p := domain.Product{ID: id, Name: strings.TrimSpace(rec[nameCol])}
		for _, c := range comps {
			price, ok := domain.CleanPrice(rec[c.idx])
			p.Competitors = append(p.Competitors, domain.CompetitorPrice{Column: c.key, Price: price, Present: ok})
		}
		products = append(products, p)
	}
	return products, nil
}

// ParseInventory parses rows of product_id, inventory_level, base_cost and
// either demand_score or sales_last_week with avg_sales.
func ParseInventory(r io.Reader) ([]domain.Inventory, error) {
	header, records, err := readAll(r)
	if err != nil {
		return nil, err
	}

	idCol, err := requireColumn(header, "product_id")
	if err != nil {
		return nil, err
	}
	levelCol, err := requireColumn(header, "inventory_level")
	if err != nil {
		return nil, err
	}
	demandCol, hasDemand := header["demand_score"]
	salesCol, hasSales := header["sales_last_week"]
	avgCol, hasAvg := header["avg_sales"]
	if !hasDemand && !(hasSales && hasAvg) {
		return nil, apperror.Validation(apperror.CodeInvalidFormat,
			"missing demand_score or sales_last_week/avg_sales columns")
	}
	costCol, hasCost := header["base_cost"]

	out := make([]domain.Inventory, 0, len(records))
	for line, rec := range records {
		id, err := parseInt(rec[idCol])
		if err != nil {
			return nil, invalidRow(line, "product_id", err)
		}
		level, err := parseInt(rec[levelCol])
		if err != nil {
			return nil, invalidRow(line, "inventory_level", err)
		}

		inv := domain.Inventory{ProductID: id, Level: level}

		if hasDemand && strings.TrimSpace(rec[demandCol]) != "" {
			if inv.Demand, err = decimal.NewFromString(strings.TrimSpace(rec[demandCol])); err != nil {
				return nil, invalidRow(line, "demand_score", err)
			}
		} else if hasSales && hasAvg {
			sales, err := decimal.NewFromString(strings.TrimSpace(rec[salesCol]))
			if err != nil {
				return nil, invalidRow(line, "sales_last_week", err)
			}
			avg, err := decimal.NewFromString(strings.TrimSpace(rec[avgCol]))
			if err != nil {
				return nil, invalidRow(line, "avg_sales", err)
			}
			inv.Demand = domain.DemandScore(sales, avg)
		}

		if hasCost {
			if cost, ok := domain.CleanPrice(rec[costCol]); ok {
				inv.BaseCost = cost
			}
		}
		out = append(out, inv)
	}
	return out, nil
}

func readAll(r io.Reader) (map[string]int, [][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, apperror.Validation(apperror.CodeInvalidFormat, "empty csv")
	}
	if err != nil {
		return nil, nil, apperror.Validation(apperror.CodeInvalidFormat, err.Error())
	}

	header := make(map[string]int, len(head))
	for i, name := range head {
		header[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, apperror.Validation(apperror.CodeInvalidFormat, err.Error())
	}
	return header, records, nil
}

func requireColumn(header map[string]int, name string) (int, error) {
	idx, ok := header[name]
	if !ok {
		return 0, apperror.Validation(apperror.CodeRequiredField, "missing column "+name)
	}
	return idx, nil
}

// parseInt accepts integral values, including pandas-style "12.0".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(d.IntPart()), nil
}

func invalidRow(line int, column string, err error) error {
	// line is zero-based over data rows; the header is line 1.
	return apperror.New(apperror.CodeInvalidFormat,
		apperror.WithContext(fmt.Sprintf("line %d: %s", line+2, column)),
		apperror.WithCause(err))
}
