// Package catalog implements the catalog bounded context: CSV ingestion,
// product lookups and batch price reports.
package catalog

import (
	"context"

	"github.com/fd1az/smart-pricing/business/catalog/app"
	catalogDI "github.com/fd1az/smart-pricing/business/catalog/di"
	"github.com/fd1az/smart-pricing/business/catalog/infra/csvsource"
	"github.com/fd1az/smart-pricing/business/catalog/infra/report"
	pricingDI "github.com/fd1az/smart-pricing/business/pricing/di"
	"github.com/fd1az/smart-pricing/internal/config"
	"github.com/fd1az/smart-pricing/internal/di"
	"github.com/fd1az/smart-pricing/internal/logger"
	"github.com/fd1az/smart-pricing/internal/monolith"
)

// Module implements the catalog bounded context. It depends on the pricing
// module's DecisionEngine.
type Module struct{}

// RegisterServices registers all catalog services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, catalogDI.DataSource, func(sr di.ServiceRegistry) app.DataSource {
		cfg := sr.Get(monolith.ConfigKey).(*config.Config)
		return csvsource.New(cfg.Data.CompetitorPricesPath, cfg.Data.InventoryPath)
	})

	di.RegisterToken(c, catalogDI.ReportWriter, func(sr di.ServiceRegistry) app.ReportWriter {
		cfg := sr.Get(monolith.ConfigKey).(*config.Config)
		w, err := report.New(cfg.Data.ReportFormat, cfg.Data.ReportPath)
		if err != nil {
			panic("failed to create report writer: " + err.Error())
		}
		return w
	})

	// Register CatalogService (public - used by the API, dashboard and CLI)
	di.RegisterToken(c, catalogDI.CatalogService, func(sr di.ServiceRegistry) *app.CatalogService {
		log := sr.Get(monolith.LoggerKey).(logger.LoggerInterface)
		return app.NewCatalogService(
			catalogDI.GetDataSource(sr),
			pricingDI.GetDecisionEngine(sr),
			catalogDI.GetReportWriter(sr),
			log,
		)
	})

	return nil
}

// Startup loads the catalog snapshot. Missing or malformed files are fatal.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	svc := catalogDI.GetCatalogService(mono.Services())
	if err := svc.Refresh(ctx); err != nil {
		return err
	}
	mono.Logger().Info(ctx, "catalog module started",
		"competitor_prices", mono.Config().Data.CompetitorPricesPath,
		"inventory", mono.Config().Data.InventoryPath)
	return nil
}
