package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
	"github.com/fd1az/smart-pricing/internal/logger"
)

const (
	tracerName = "pricing.engine"
	meterName  = "pricing.engine"
)

type engineMetrics struct {
	decisions metric.Int64Counter
	fallbacks metric.Int64Counter
	latency   metric.Float64Histogram
}

// DecisionEngine decides prices: primary strategy first, fallback on any
// primary failure. It never returns an error; absence is Decision{Source: none}.
type DecisionEngine struct {
	primary  Strategy // nil runs rule-only
	fallback Strategy
	workers  int
	log      logger.LoggerInterface

	tracer  trace.Tracer
	metrics engineMetrics
}

// NewDecisionEngine creates an engine. primary may be nil; workers bounds
// DecideBatch concurrency.
func NewDecisionEngine(primary, fallback Strategy, workers int, log logger.LoggerInterface) (*DecisionEngine, error) {
	if workers < 1 {
		workers = 1
	}
	e := &DecisionEngine{
		primary:  primary,
		fallback: fallback,
		workers:  workers,
		log:      log,
		tracer:   otel.Tracer(tracerName),
	}

	meter := otel.Meter(meterName)
	var err error
	e.metrics.decisions, err = meter.Int64Counter(
		"pricing_decisions_total",
		metric.WithDescription("Pricing decisions by source"),
	)
	if err != nil {
		return nil, err
	}
	e.metrics.fallbacks, err = meter.Int64Counter(
		"pricing_fallback_total",
		metric.WithDescription("Fallbacks to the rule-based strategy by reason"),
	)
	if err != nil {
		return nil, err
	}
	e.metrics.latency, err = meter.Float64Histogram(
		"pricing_primary_duration_seconds",
		metric.WithDescription("Primary strategy latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// RuleOnly reports whether the engine has no primary strategy.
func (e *DecisionEngine) RuleOnly() bool {
	return e.primary == nil
}

// Decide prices one context.
func (e *DecisionEngine) Decide(ctx context.Context, pc domain.PricingContext) domain.Decision {
	ctx, span := e.tracer.Start(ctx, "pricing.decide",
		trace.WithAttributes(attribute.Int("competitors", len(pc.CompetitorPrices))),
	)
	defer span.End()

	decision := e.decide(ctx, pc)

	span.SetAttributes(attribute.String("source", string(decision.Source)))
	e.metrics.decisions.Add(ctx, 1, metric.WithAttributes(attribute.String("source", string(decision.Source))))
	return decision
}

func (e *DecisionEngine) decide(ctx context.Context, pc domain.PricingContext) domain.Decision {
	features, ok := domain.DeriveFeatures(pc.CompetitorPrices, pc.Inventory, pc.Demand)
	if !ok {
		return domain.NoDecision()
	}

	if e.primary != nil {
		start := time.Now()
		price, err := e.primary.Price(ctx, pc, features)
		e.metrics.latency.Record(ctx, time.Since(start).Seconds())
		if err == nil {
			return domain.Decision{Price: domain.RoundPrice(price), Source: e.primary.Source()}
		}

		reason := apperror.GetCode(err)
		e.log.Info(ctx, "using rule-based fallback", "reason", reason, "error", err)
		e.metrics.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(reason))))
	}

	price, err := e.fallback.Price(ctx, pc, features)
	if err != nil {
		e.log.Error(ctx, "fallback strategy failed", "error", err)
		return domain.NoDecision()
	}
	return domain.Decision{Price: domain.RoundPrice(price), Source: e.fallback.Source()}
}

// DecideBatch prices every context independently on a bounded pool.
// Results are in input order.
func (e *DecisionEngine) DecideBatch(ctx context.Context, batch []domain.PricingContext) []domain.Decision {
	ctx, span := e.tracer.Start(ctx, "pricing.decide_batch",
		trace.WithAttributes(attribute.Int("rows", len(batch)), attribute.Int("workers", e.workers)),
	)
	defer span.End()

	out := make([]domain.Decision, len(batch))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range batch {
		g.Go(func() error {
			out[i] = e.Decide(ctx, batch[i])
			return nil
		})
	}
	_ = g.Wait()

	return out
}
