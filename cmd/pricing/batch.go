package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	catalogDI "github.com/fd1az/smart-pricing/business/catalog/di"
	"github.com/fd1az/smart-pricing/business/catalog/infra/report"
	pricingDI "github.com/fd1az/smart-pricing/business/pricing/di"
	"github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
)

func runBatch(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("batch")
	verbose := fs.Bool("v", false, "Print every priced row")
	fs.Parse(args)

	app, err := bootstrap(ctx, *configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer app.shutdown()

	// The batch reloads the catalog itself; only the pricing module starts here.
	if err := app.mono.StartModules(ctx, app.pricing); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	svc := catalogDI.GetCatalogService(app.mono.Services())
	summary, rows, err := svc.RunBatch(ctx)
	if err != nil {
		return err
	}

	console := report.NewConsoleReporter(os.Stdout)
	if *verbose {
		console.ReportRows(rows)
	}
	console.ReportBatch(summary)
	return nil
}

func runQuote(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("quote")
	pricesFlag := fs.String("prices", "", "Comma-separated competitor prices, e.g. 100,102.5")
	inventory := fs.Int("inventory", 0, "Units in stock")
	demandFlag := fs.String("demand", "0", "Demand score")
	costFlag := fs.String("cost", "0", "Unit base cost (0 disables the margin floor)")
	fs.Parse(args)

	prices, err := parsePrices(*pricesFlag)
	if err != nil {
		return err
	}
	demand, err := decimal.NewFromString(*demandFlag)
	if err != nil {
		return apperror.Validation(apperror.CodeInvalidInput, "demand: "+err.Error())
	}
	cost, err := decimal.NewFromString(*costFlag)
	if err != nil {
		return apperror.Validation(apperror.CodeInvalidInput, "cost: "+err.Error())
	}

	pc := domain.PricingContext{
		CompetitorPrices: prices,
		Inventory:        *inventory,
		Demand:           demand,
		BaseCost:         cost,
	}
	if err := pc.Validate(); err != nil {
		return err
	}

	app, err := bootstrap(ctx, *configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer app.shutdown()

	if err := app.mono.StartModules(ctx, app.pricing); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	decision := pricingDI.GetDecisionEngine(app.mono.Services()).Decide(ctx, pc)
	report.NewConsoleReporter(os.Stdout).ReportQuote(pc, decision)
	if !decision.OK() {
		return apperror.New(apperror.CodeNoCompetitorData)
	}
	return nil
}

// parsePrices parses a comma-separated price list. Empty entries are skipped.
func parsePrices(s string) ([]decimal.Decimal, error) {
	var prices []decimal.Decimal
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		p, err := decimal.NewFromString(field)
		if err != nil {
			return nil, apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("price %q: %v", field, err))
		}
		prices = append(prices, p)
	}
	return prices, nil
}
