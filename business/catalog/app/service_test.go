package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	pricingApp "github.com/fd1az/smart-pricing/business/pricing/app"
	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
	"github.com/fd1az/smart-pricing/internal/logger"
)

type fakeSource struct {
	products  []domain.Product
	inventory []domain.Inventory
	err       error
	loads     int
}

func (f *fakeSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeSource) LoadInventory(ctx context.Context) ([]domain.Inventory, error) {
	return f.inventory, nil
}

type memoryWriter struct {
	mu   sync.Mutex
	rows []domain.PricedRow
	err  error
}

func (w *memoryWriter) Write(ctx context.Context, rows []domain.PricedRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.rows = rows
	return nil
}

func (w *memoryWriter) Path() string { return "memory" }

func present(v string) domain.CompetitorPrice {
	return domain.CompetitorPrice{Column: "competitor_1_price", Price: decimal.RequireFromString(v), Present: true}
}

func catalog() *fakeSource {
	return &fakeSource{
		products: []domain.Product{
			{ID: 1, Name: "Wireless Mouse", Competitors: []domain.CompetitorPrice{present("100"), present("100")}},
			{ID: 2, Name: "USB Cable", Competitors: []domain.CompetitorPrice{present("50")}},
			{ID: 3, Name: "Mystery Box", Competitors: []domain.CompetitorPrice{{Column: "competitor_1_price"}}},
		},
		inventory: []domain.Inventory{
			{ProductID: 1, Level: 5, Demand: decimal.RequireFromString("0.9")},
			{ProductID: 3, Level: 20, Demand: decimal.RequireFromString("0.6")},
		},
	}
}

func newService(t *testing.T, source DataSource, writer ReportWriter) *CatalogService {
	t.Helper()
	engine, err := pricingApp.NewDecisionEngine(nil,
		pricingApp.NewRuleBasedStrategy(pricingDomain.DefaultRulePolicy(), pricingDomain.DefaultMinMargin),
		2, logger.NewNop())
	if err != nil {
		t.Fatalf("NewDecisionEngine() error = %v", err)
	}
	return NewCatalogService(source, engine, writer, logger.NewNop())
}

func TestCatalogService_PriceProduct(t *testing.T) {
	svc := newService(t, catalog(), nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		id        int
		wantPrice string
		wantCode  apperror.Code
	}{
		{name: "high_demand_low_stock", id: 1, wantPrice: "110.00"},
		{name: "missing_from_competitor_data", id: 42, wantCode: apperror.CodeProductNotFound},
		{name: "missing_from_inventory", id: 2, wantCode: apperror.CodeInventoryNotFound},
		{name: "no_competitor_prices", id: 3, wantCode: apperror.CodeNoCompetitorData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := svc.PriceProduct(ctx, tt.id)
			if tt.wantCode != "" {
				if got := apperror.GetCode(err); got != tt.wantCode {
					t.Fatalf("PriceProduct() code = %v, want %v (err %v)", got, tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PriceProduct() error = %v", err)
			}
			if got := row.Decision.String(); got != tt.wantPrice {
				t.Errorf("price = %s, want %s", got, tt.wantPrice)
			}
			if row.Decision.Source != pricingDomain.SourceRule {
				t.Errorf("source = %s, want rule", row.Decision.Source)
			}
		})
	}
}

func TestCatalogService_NotFoundMessages(t *testing.T) {
	svc := newService(t, catalog(), nil)

	_, err := svc.PriceProduct(context.Background(), 42)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an AppError", err)
	}
	if appErr.Message != "Product not found in competitor data." {
		t.Errorf("message = %q", appErr.Message)
	}
	if appErr.StatusCode != 404 {
		t.Errorf("status = %d, want 404", appErr.StatusCode)
	}
}

func TestCatalogService_SnapshotLoadedOnce(t *testing.T) {
	source := catalog()
	svc := newService(t, source, nil)
	ctx := context.Background()

	for range 3 {
		if _, err := svc.PriceProduct(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}
	if source.loads != 1 {
		t.Errorf("loads = %d, want 1", source.loads)
	}

	if err := svc.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if source.loads != 2 {
		t.Errorf("loads after refresh = %d, want 2", source.loads)
	}
	if svc.LoadedAt().IsZero() {
		t.Error("LoadedAt should be set")
	}
}

func TestCatalogService_SourceError(t *testing.T) {
	boom := apperror.New(apperror.CodeDataSourceError)
	svc := newService(t, &fakeSource{err: boom}, nil)

	if _, err := svc.ListProducts(context.Background()); !errors.Is(err, boom) {
		t.Errorf("ListProducts() error = %v, want %v", err, boom)
	}
}

func TestCatalogService_ListAndSearch(t *testing.T) {
	svc := newService(t, catalog(), nil)
	ctx := context.Background()

	rows, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	wantSources := []pricingDomain.Source{pricingDomain.SourceRule, pricingDomain.SourceNone, pricingDomain.SourceNone}
	for i, row := range rows {
		if row.Decision.Source != wantSources[i] {
			t.Errorf("rows[%d].Source = %s, want %s", i, row.Decision.Source, wantSources[i])
		}
	}

	found, err := svc.SearchProducts(ctx, "  usb ")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].Product.ID != 2 {
		t.Errorf("SearchProducts(usb) = %+v", found)
	}

	all, err := svc.SearchProducts(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("SearchProducts(\"\") returned %d rows, want 3", len(all))
	}
}

func TestCatalogService_Quote(t *testing.T) {
	svc := newService(t, catalog(), nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		pc        pricingDomain.PricingContext
		wantPrice string
		wantCode  apperror.Code
	}{
		{
			name:      "soft_demand",
			pc:        pricingDomain.PricingContext{CompetitorPrices: []decimal.Decimal{decimal.NewFromInt(100)}, Inventory: 20, Demand: decimal.RequireFromString("0.4")},
			wantPrice: "95.00",
		},
		{
			name:     "empty_prices",
			pc:       pricingDomain.PricingContext{Inventory: 20, Demand: decimal.RequireFromString("0.4")},
			wantCode: apperror.CodeNoCompetitorData,
		},
		{
			name:     "negative_inventory",
			pc:       pricingDomain.PricingContext{CompetitorPrices: []decimal.Decimal{decimal.NewFromInt(100)}, Inventory: -1},
			wantCode: apperror.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := svc.Quote(ctx, tt.pc)
			if tt.wantCode != "" {
				if got := apperror.GetCode(err); got != tt.wantCode {
					t.Fatalf("Quote() code = %v, want %v", got, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Quote() error = %v", err)
			}
			if d.String() != tt.wantPrice {
				t.Errorf("price = %s, want %s", d.String(), tt.wantPrice)
			}
		})
	}
}

func TestCatalogService_RunBatch(t *testing.T) {
	writer := &memoryWriter{}
	svc := newService(t, catalog(), writer)

	summary, rows, err := svc.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}

	if summary.RunID == "" {
		t.Error("RunID should be set")
	}
	if summary.Rows != 3 || summary.Rule != 1 || summary.Model != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.NoDecision != 2 || summary.NoStock != 1 {
		t.Errorf("NoDecision = %d NoStock = %d, want 2 and 1", summary.NoDecision, summary.NoStock)
	}
	if summary.ReportPath != "memory" {
		t.Errorf("ReportPath = %q", summary.ReportPath)
	}
	if len(writer.rows) != len(rows) {
		t.Errorf("writer got %d rows, want %d", len(writer.rows), len(rows))
	}
}

func TestCatalogService_RunBatchWriteError(t *testing.T) {
	boom := errors.New("disk full")
	svc := newService(t, catalog(), &memoryWriter{err: boom})

	summary, _, err := svc.RunBatch(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("RunBatch() error = %v, want %v", err, boom)
	}
	if summary.ReportPath != "" {
		t.Errorf("ReportPath = %q, want empty", summary.ReportPath)
	}
}
