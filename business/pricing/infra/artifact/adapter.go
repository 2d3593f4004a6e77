package artifact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/internal/apperror"
	"github.com/fd1az/smart-pricing/internal/circuitbreaker"
	"github.com/fd1az/smart-pricing/internal/httpclient"
	"github.com/fd1az/smart-pricing/internal/logger"
)

const (
	tracerName = "pricing.artifact"
	meterName  = "pricing.artifact"
)

// Config holds adapter settings.
type Config struct {
	Location string
	Cache    bool                  // keep the first successful load until Reload
	Timeout  time.Duration         // per load and per score; 0 disables
	Breaker  circuitbreaker.Config // guards loads only
}

type adapterMetrics struct {
	loads  metric.Int64Counter
	scores metric.Int64Counter
}

// Adapter loads a scoring artifact and scores feature vectors with it.
// A cached artifact is shared read-only across goroutines. Scoring keeps no
// state between calls, so a decision never depends on earlier inputs.
type Adapter struct {
	cfg    Config
	loader *Loader
	log    logger.LoggerInterface

	loadBreaker *circuitbreaker.CircuitBreaker[*Artifact]

	mu       sync.RWMutex
	cached   *Artifact // served from Load when caching is on
	last     *Artifact // last successful load, for Status
	loadedAt time.Time

	tracer  trace.Tracer
	metrics adapterMetrics
}

// NewAdapter creates an Adapter. client is used for http(s) locations.
func NewAdapter(cfg Config, client httpclient.Client, log logger.LoggerInterface) (*Adapter, error) {
	loadCfg := cfg.Breaker
	loadCfg.Name = "artifact-load"
	loadCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "artifact circuit breaker state changed",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	// Only transport and I/O failures trip the breaker.
	loadCfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrMalformed)
	}

	a := &Adapter{
		cfg:         cfg,
		loader:      NewLoader(cfg.Location, client),
		log:         log,
		loadBreaker: circuitbreaker.New[*Artifact](loadCfg),
		tracer:      otel.Tracer(tracerName),
	}

	meter := otel.Meter(meterName)
	var err error
	a.metrics.loads, err = meter.Int64Counter(
		"pricing_artifact_loads_total",
		metric.WithDescription("Artifact load attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}
	a.metrics.scores, err = meter.Int64Counter(
		"pricing_artifact_scores_total",
		metric.WithDescription("Artifact scoring attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Load returns the artifact, from cache when enabled. Failures are load
// failures and never fatal.
func (a *Adapter) Load(ctx context.Context) (*Artifact, error) {
	if a.cfg.Cache {
		a.mu.RLock()
		cached := a.cached
		a.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
	}

	art, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.cfg.Cache && a.cached != nil {
		art = a.cached
	} else {
		if a.cfg.Cache {
			a.cached = art
		}
		a.last, a.loadedAt = art, time.Now()
	}
	a.mu.Unlock()
	return art, nil
}

// Reload reads the artifact again and replaces the cached copy. On failure
// the previous artifact stays in place. Without caching every Load already
// reads the location, so Reload does nothing.
func (a *Adapter) Reload(ctx context.Context) error {
	if !a.cfg.Cache {
		a.log.Debug(ctx, "artifact cache disabled, skipping reload")
		return nil
	}

	art, err := a.load(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.cached, a.last, a.loadedAt = art, art, time.Now()
	a.mu.Unlock()

	a.log.Info(ctx, "scoring artifact reloaded", "kind", art.Kind, "version", art.Version)
	return nil
}

// Status reports the most recently loaded artifact, if any.
func (a *Adapter) Status() (art *Artifact, loadedAt time.Time, ok bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last, a.loadedAt, a.last != nil
}

func (a *Adapter) load(ctx context.Context) (*Artifact, error) {
	ctx, span := a.tracer.Start(ctx, "artifact.load",
		trace.WithAttributes(attribute.String("location", a.cfg.Location)),
	)
	defer span.End()

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	art, err := a.loadBreaker.Execute(func() (*Artifact, error) {
		return a.loader.Load(ctx)
	})
	if err != nil {
		if !IsLoadFailure(err) {
			// Breaker rejections.
			err = apperror.New(apperror.CodeArtifactLoadFailed,
				apperror.WithContext(a.cfg.Location), apperror.WithCause(err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		a.metrics.loads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", false)))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("kind", string(art.Kind)),
		attribute.String("version", art.Version),
	)
	a.metrics.loads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", true)))
	return art, nil
}

// Score evaluates features with art and rounds to two places. Any problem,
// including a negative or non-finite output, is a SCORING_FAILED error.
func (a *Adapter) Score(ctx context.Context, art *Artifact, features domain.FeatureVector) (decimal.Decimal, error) {
	ctx, span := a.tracer.Start(ctx, "artifact.score")
	defer span.End()

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	price, err := score(ctx, art, features)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "score failed")
		a.metrics.scores.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", false)))
		return decimal.Zero, err
	}

	span.SetAttributes(attribute.String("price", price.StringFixed(2)))
	a.metrics.scores.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", true)))
	return price, nil
}

func score(ctx context.Context, art *Artifact, features domain.FeatureVector) (decimal.Decimal, error) {
	if art == nil {
		return decimal.Zero, apperror.New(apperror.CodeScoringFailed, apperror.WithContext("nil artifact"))
	}
	if err := ctx.Err(); err != nil {
		return decimal.Zero, apperror.New(apperror.CodeScoringFailed, apperror.WithCause(err))
	}

	y, err := art.Predict(features.Values())
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeScoringFailed,
			apperror.WithContext(err.Error()), apperror.WithCause(err))
	}
	if err := ctx.Err(); err != nil {
		return decimal.Zero, apperror.New(apperror.CodeScoringFailed, apperror.WithCause(err))
	}
	if y < 0 {
		return decimal.Zero, apperror.New(apperror.CodeScoringFailed, apperror.WithContext("negative prediction"))
	}

	return domain.RoundPrice(decimal.NewFromFloat(y)), nil
}
