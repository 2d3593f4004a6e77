// Package main is the entry point for the smart pricing service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fd1az/smart-pricing/business/catalog"
	"github.com/fd1az/smart-pricing/business/pricing"
	"github.com/fd1az/smart-pricing/internal/apm"
	"github.com/fd1az/smart-pricing/internal/config"
	"github.com/fd1az/smart-pricing/internal/logger"
	"github.com/fd1az/smart-pricing/internal/metrics"
	"github.com/fd1az/smart-pricing/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const usage = `usage: pricing <command> [flags]

commands:
  serve       run the REST API, health server and scheduled jobs
  batch       price every catalog product and write the report
  quote       price ad-hoc inputs
  dashboard   interactive pricing dashboard
  version     print version information

run "pricing <command> -h" for command flags
`

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Setup context with cancellation on shutdown signals
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = runServe(ctx, args)
	case "batch":
		err = runBatch(ctx, args)
	case "quote":
		err = runQuote(ctx, args)
	case "dashboard":
		err = runDashboard(ctx, args)
	case "version", "-version", "--version":
		fmt.Printf("smart-pricing %s (commit: %s, built: %s)\n", version, commit, buildDate)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// application is the bootstrapped process state shared by all commands.
type application struct {
	cfg     *config.Config
	log     logger.LoggerInterface
	mono    *monolith.App
	pricing *pricing.Module
	catalog *catalog.Module

	traceProvider  apm.TraceProvider
	metricProvider metrics.MetricProvider
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	return fs, configPath
}

// bootstrap loads config, builds the logger and telemetry, and registers
// the modules. Logs go to logOut.
func bootstrap(ctx context.Context, configPath string, logOut io.Writer) (*application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logOut, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, apm.TraceID)
	log.Info(ctx, "starting smart pricing",
		"version", version,
		"environment", cfg.App.Environment,
	)

	app := &application{
		cfg:     cfg,
		log:     log,
		pricing: &pricing.Module{},
		catalog: &catalog.Module{},
	}

	if cfg.Telemetry.Enabled {
		if err := app.initTelemetry(ctx); err != nil {
			return nil, err
		}
	}

	mono, err := monolith.New(cfg, log)
	if err != nil {
		app.shutdown()
		return nil, fmt.Errorf("failed to create monolith: %w", err)
	}
	app.mono = mono

	// Pricing first: catalog depends on the decision engine.
	if err := mono.RegisterModules(app.pricing, app.catalog); err != nil {
		app.shutdown()
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}

	return app, nil
}

func (a *application) initTelemetry(ctx context.Context) error {
	cfg := a.cfg.Telemetry
	if cfg.ServiceName != "" {
		os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}

	tp, err := apm.NewTraceProvider(
		apm.WithServiceName(cfg.ServiceName),
		apm.WithProvider(apm.Provider(cfg.TraceProvider), cfg.OTLPEndpoint, a.log),
	)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	a.traceProvider = tp
	a.log.Info(ctx, "tracing initialized", "provider", cfg.TraceProvider, "endpoint", cfg.OTLPEndpoint)

	mp, err := metrics.NewMetricProvider(metricOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}
	a.metricProvider = mp
	return nil
}

// metricOptions always exposes Prometheus and also pushes to the OTLP
// collector when an endpoint is configured.
func metricOptions(cfg config.TelemetryConfig) []metrics.OptionFn {
	opts := []metrics.OptionFn{
		metrics.WithServiceName(cfg.ServiceName),
		metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
	}
	if cfg.OTLPEndpoint != "" {
		insecure := !strings.HasPrefix(cfg.OTLPEndpoint, "https://")
		opts = append(opts, metrics.WithProviderConfig(
			metrics.NewOtelCollectorConfig(cfg.OTLPEndpoint, nil, insecure),
		))
	}
	return opts
}

func (a *application) shutdown() {
	if a.traceProvider != nil {
		if err := a.traceProvider.Stop(); err != nil {
			a.log.Warn(context.Background(), "trace provider shutdown failed", "error", err)
		}
	}
	if a.metricProvider != nil {
		if err := a.metricProvider.Shutdown(context.Background()); err != nil {
			a.log.Warn(context.Background(), "metric provider shutdown failed", "error", err)
		}
	}
}
