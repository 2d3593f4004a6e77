package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
	"github.com/fd1az/smart-pricing/internal/logger"
)

// CatalogService prices catalog products. It keeps the last merged snapshot
// in memory; Refresh reloads it from the data source.
type CatalogService struct {
	source  DataSource
	decider Decider
	writer  ReportWriter
	log     logger.LoggerInterface

	mu       sync.RWMutex
	rows     []domain.MergedRow
	index    map[int]int // product id -> first row
	loadedAt time.Time
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(source DataSource, decider Decider, writer ReportWriter, log logger.LoggerInterface) *CatalogService {
	return &CatalogService{
		source:  source,
		decider: decider,
		writer:  writer,
		log:     log,
	}
}

// Refresh reloads and merges catalog data.
func (s *CatalogService) Refresh(ctx context.Context) error {
	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return err
	}
	inventory, err := s.source.LoadInventory(ctx)
	if err != nil {
		return err
	}

	rows := domain.Merge(products, inventory)
	index := make(map[int]int, len(rows))
	for i, row := range rows {
		if _, dup := index[row.Product.ID]; !dup {
			index[row.Product.ID] = i
		}
	}

	s.mu.Lock()
	s.rows, s.index, s.loadedAt = rows, index, time.Now()
	s.mu.Unlock()

	s.log.Info(ctx, "catalog loaded", "products", len(products), "inventory", len(inventory))
	return nil
}

// LoadedAt returns when the snapshot was last refreshed.
func (s *CatalogService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *CatalogService) snapshot(ctx context.Context) ([]domain.MergedRow, map[int]int, error) {
	s.mu.RLock()
	rows, index := s.rows, s.index
	s.mu.RUnlock()
	if rows != nil {
		return rows, index, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows, s.index, nil
}

// PriceProduct prices one product by id.
func (s *CatalogService) PriceProduct(ctx context.Context, productID int) (domain.PricedRow, error) {
	rows, index, err := s.snapshot(ctx)
	if err != nil {
		return domain.PricedRow{}, err
	}

	i, ok := index[productID]
	if !ok {
		return domain.PricedRow{}, apperror.New(apperror.CodeProductNotFound,
			apperror.WithMessage("Product not found in competitor data."))
	}
	row := rows[i]

	pc, ok := row.Context()
	if !ok {
		return domain.PricedRow{}, apperror.New(apperror.CodeInventoryNotFound,
			apperror.WithMessage("Product not found in inventory data."))
	}

	decision := s.decider.Decide(ctx, pc)
	if !decision.OK() {
		return domain.PricedRow{}, apperror.New(apperror.CodeNoCompetitorData,
			apperror.WithContext("product has no competitor prices"))
	}
	return domain.PricedRow{MergedRow: row, Decision: decision}, nil
}

// ListProducts prices every product. Rows without inventory or competitor
// prices carry no decision.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.PricedRow, error) {
	rows, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, rows), nil
}

// SearchProducts prices products whose name contains query, case-insensitively.
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]domain.PricedRow, error) {
	rows, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.price(ctx, rows), nil
	}
	matched := make([]domain.MergedRow, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Product.Name), q) {
			matched = append(matched, row)
		}
	}
	return s.price(ctx, matched), nil
}

// Quote prices ad-hoc inputs.
func (s *CatalogService) Quote(ctx context.Context, pc pricingDomain.PricingContext) (pricingDomain.Decision, error) {
	if err := pc.Validate(); err != nil {
		return pricingDomain.Decision{}, err
	}
	decision := s.decider.Decide(ctx, pc)
	if !decision.OK() {
		return decision, apperror.New(apperror.CodeNoCompetitorData)
	}
	return decision, nil
}

// RunBatch reloads the catalog, prices every row and writes the report.
func (s *CatalogService) RunBatch(ctx context.Context) (domain.BatchSummary, []domain.PricedRow, error) {
	start := time.Now()
	summary := domain.BatchSummary{RunID: uuid.NewString()}

	if err := s.Refresh(ctx); err != nil {
		return summary, nil, err
	}
	rows, _, err := s.snapshot(ctx)
	if err != nil {
		return summary, nil, err
	}

	priced := s.price(ctx, rows)
	for _, row := range priced {
		switch row.Decision.Source {
		case pricingDomain.SourceModel:
			summary.Model++
		case pricingDomain.SourceRule:
			summary.Rule++
		default:
			summary.NoDecision++
			if !row.HasInventory() {
				summary.NoStock++
			}
		}
	}
	summary.Rows = len(priced)

	if s.writer != nil {
		if err := s.writer.Write(ctx, priced); err != nil {
			return summary, priced, err
		}
		summary.ReportPath = s.writer.Path()
	}
	summary.Duration = time.Since(start)

	s.log.Info(ctx, "batch pricing done",
		"run_id", summary.RunID,
		"rows", summary.Rows,
		"model", summary.Model,
		"rule", summary.Rule,
		"no_decision", summary.NoDecision,
		"report", summary.ReportPath,
	)
	return summary, priced, nil
}

func (s *CatalogService) price(ctx context.Context, rows []domain.MergedRow) []domain.PricedRow {
	out := make([]domain.PricedRow, len(rows))
	contexts := make([]pricingDomain.PricingContext, 0, len(rows))
	positions := make([]int, 0, len(rows))

	for i, row := range rows {
		out[i] = domain.PricedRow{MergedRow: row, Decision: pricingDomain.NoDecision()}
		if pc, ok := row.Context(); ok {
			contexts = append(contexts, pc)
			positions = append(positions, i)
		}
	}

	for j, d := range s.decider.DecideBatch(ctx, contexts) {
		out[positions[j]].Decision = d
	}
	return out
}
