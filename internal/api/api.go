// Package api exposes catalog pricing over REST.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fd1az/smart-pricing/business/catalog/domain"
	pricingDomain "github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/internal/logger"
	"github.com/fd1az/smart-pricing/internal/metrics"
	"github.com/fd1az/smart-pricing/internal/ratelimit"
)

// PricingService is what the handlers need from the catalog.
type PricingService interface {
	PriceProduct(ctx context.Context, productID int) (domain.PricedRow, error)
	ListProducts(ctx context.Context) ([]domain.PricedRow, error)
	Quote(ctx context.Context, pc pricingDomain.PricingContext) (pricingDomain.Decision, error)
}

// Options configures the router.
type Options struct {
	RateLimitRPM int  // 0 disables rate limiting
	Metrics      bool // expose /metrics
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(svc PricingService, log logger.LoggerInterface, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(log))
	if opts.RateLimitRPM > 0 {
		r.Use(RateLimit(ratelimit.NewKeyed(opts.RateLimitRPM, 10*time.Minute)))
	}

	if opts.Metrics {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	h := &handler{svc: svc, log: log}
	v1 := r.Group("/api/v1")
	{
		v1.GET("/price", h.GetPrice)
		v1.POST("/price/quote", h.PostQuote)
		v1.GET("/products", h.ListProducts)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})

	return r
}

// Server runs the REST API.
type Server struct {
	port   int
	router http.Handler
	log    logger.LoggerInterface
	server *http.Server
}

// NewServer creates a REST server.
func NewServer(port int, router http.Handler, log logger.LoggerInterface) *Server {
	return &Server{port: port, router: router, log: log}
}

// Start starts serving in the background.
func (s *Server) Start() {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(context.Background(), "api server stopped", "error", err, "port", s.port)
		}
	}()
	s.log.Info(context.Background(), "api server listening", "port", s.port)
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
