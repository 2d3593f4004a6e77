// Package di contains dependency injection tokens for the catalog context.
package di

import (
	"github.com/fd1az/smart-pricing/business/catalog/app"
	"github.com/fd1az/smart-pricing/internal/di"
)

// Public service tokens - exposed to other modules
var (
	CatalogService = di.NewToken[*app.CatalogService]("catalog.CatalogService")
)

// Private dependency tokens - internal to catalog module
var (
	DataSource   = di.NewToken[app.DataSource]("catalog:dataSource")
	ReportWriter = di.NewToken[app.ReportWriter]("catalog:reportWriter")
)

func GetCatalogService(c di.ServiceRegistry) *app.CatalogService {
	return di.GetToken(c, CatalogService)
}

func GetDataSource(c di.ServiceRegistry) app.DataSource {
	return di.GetToken(c, DataSource)
}

func GetReportWriter(c di.ServiceRegistry) app.ReportWriter {
	return di.GetToken(c, ReportWriter)
}
