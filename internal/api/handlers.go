package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/internal/apm"
	"github.com/fd1az/smart-pricing/internal/apperror"
	"github.com/fd1az/smart-pricing/internal/logger"
)

type handler struct {
	svc PricingService
	log logger.LoggerInterface
}

// money renders a decimal as a JSON number with two fractional digits.
type money decimal.Decimal

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(pricingDomain.PriceDecimals)), nil
}

func moneyPtr(d decimal.Decimal) *money {
	m := money(d)
	return &m
}

// PriceResponse is the body of GET /api/v1/price.
type PriceResponse struct {
	ProductID        int               `json:"product_id"`
	ProductName      string            `json:"product_name"`
	OptimalPrice     *money            `json:"optimal_price"`
	CompetitorPrices map[string]*money `json:"competitor_prices"`
	Inventory        *int              `json:"inventory"`
	DemandScore      *float64          `json:"demand_score"`
	Source           string            `json:"source"`
}

// QuoteRequest is the body of POST /api/v1/price/quote.
type QuoteRequest struct {
	CompetitorPrices []decimal.Decimal `json:"competitor_prices"`
	Inventory        int               `json:"inventory"`
	Demand           decimal.Decimal   `json:"demand"`
	BaseCost         decimal.Decimal   `json:"base_cost"`
}

// QuoteResponse is the body returned for a quote.
type QuoteResponse struct {
	OptimalPrice *money `json:"optimal_price"`
	Source       string `json:"source"`
}

// GetPrice prices a catalog product by id.
func (h *handler) GetPrice(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("product_id"))
	if raw == "" {
		h.fail(c, apperror.Validation(apperror.CodeRequiredField, "product_id is required"))
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.fail(c, apperror.Validation(apperror.CodeInvalidInput, "product_id must be an integer"))
		return
	}

	row, err := h.svc.PriceProduct(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toPriceResponse(row))
}

// PostQuote prices ad-hoc inputs.
func (h *handler) PostQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperror.New(apperror.CodeInvalidFormat, apperror.WithContext(err.Error()),
			apperror.WithStatusCode(http.StatusBadRequest)))
		return
	}

	d, err := h.svc.Quote(c.Request.Context(), pricingDomain.PricingContext{
		CompetitorPrices: req.CompetitorPrices,
		Inventory:        req.Inventory,
		Demand:           req.Demand,
		BaseCost:         req.BaseCost,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, QuoteResponse{OptimalPrice: moneyPtr(d.Price), Source: string(d.Source)})
}

// ListProducts prices every catalog product. Products without a decision
// carry a null optimal_price.
func (h *handler) ListProducts(c *gin.Context) {
	rows, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]PriceResponse, len(rows))
	for i, row := range rows {
		out[i] = toPriceResponse(row)
	}
	c.JSON(http.StatusOK, gin.H{"products": out, "count": len(out)})
}

func toPriceResponse(row domain.PricedRow) PriceResponse {
	resp := PriceResponse{
		ProductID:        row.Product.ID,
		ProductName:      row.Product.Name,
		CompetitorPrices: make(map[string]*money, len(row.Product.Competitors)),
		Source:           string(row.Decision.Source),
	}
	for _, cp := range row.Product.Competitors {
		if cp.Present {
			resp.CompetitorPrices[cp.Column] = moneyPtr(cp.Price)
		} else {
			resp.CompetitorPrices[cp.Column] = nil
		}
	}
	if row.Inventory != nil {
		level, demand := row.Inventory.Level, row.Inventory.Demand.InexactFloat64()
		resp.Inventory = &level
		resp.DemandScore = &demand
	}
	if row.Decision.OK() {
		resp.OptimalPrice = moneyPtr(row.Decision.Price)
	}
	return resp
}

func (h *handler) fail(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(apperror.CodeInternalError, "unexpected error", err)
	}
	if traceID := apm.TraceID(c.Request.Context()); traceID != "" {
		appErr = appErr.WithTraceID(traceID)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", appErr.LogArgs()...)
	}
	c.JSON(appErr.StatusCode, appErr.ToResponse())
}
