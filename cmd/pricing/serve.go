package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	catalogDI "github.com/fd1az/smart-pricing/business/catalog/di"
	pricingDI "github.com/fd1az/smart-pricing/business/pricing/di"
	"github.com/fd1az/smart-pricing/internal/api"
	"github.com/fd1az/smart-pricing/internal/health"
	"github.com/fd1az/smart-pricing/internal/metrics"
	"github.com/fd1az/smart-pricing/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, args []string) error {
	fs, configPath := newFlagSet("serve")
	fs.Parse(args)

	app, err := bootstrap(ctx, *configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer app.shutdown()

	cfg, log, mono := app.cfg, app.log, app.mono
	if err := mono.StartModules(ctx, app.pricing, app.catalog); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	engine := pricingDI.GetDecisionEngine(mono.Services())
	adapter := pricingDI.GetArtifactAdapter(mono.Services())
	svc := catalogDI.GetCatalogService(mono.Services())

	// Health server
	healthServer := health.NewServer(cfg.Server.HealthPort, version, log)
	healthServer.RegisterCheck("artifact", func(ctx context.Context) (bool, string) {
		if engine.RuleOnly() {
			return true, "rule-based mode"
		}
		art, loadedAt, ok := adapter.Status()
		if !ok {
			return false, "artifact not loaded, using rule-based fallback"
		}
		return true, fmt.Sprintf("%s %s loaded %s", art.Kind, art.Version, loadedAt.Format(time.RFC3339))
	})
	healthServer.RegisterCheck("catalog", func(ctx context.Context) (bool, string) {
		loadedAt := svc.LoadedAt()
		if loadedAt.IsZero() {
			return false, "catalog not loaded"
		}
		return true, "loaded " + loadedAt.Format(time.RFC3339)
	})
	healthServer.Start()
	log.Info(ctx, "health server started", "port", cfg.Server.HealthPort)

	// Standalone Prometheus server, in addition to /metrics on the API
	if cfg.Telemetry.Enabled && cfg.Telemetry.PrometheusPort > 0 {
		promServer := metrics.ServePrometheusMetrics(func(err error) {
			log.Error(ctx, "prometheus server stopped", "error", err)
		}, metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))
		defer promServer.Close()
		log.Info(ctx, "prometheus metrics server started", "port", cfg.Telemetry.PrometheusPort)
	}

	// Scheduled jobs
	sched := scheduler.New(ctx, log)
	if err := sched.Register("reload", cfg.Schedule.ReloadCron, func(ctx context.Context) error {
		if !engine.RuleOnly() {
			if err := adapter.Reload(ctx); err != nil {
				log.Warn(ctx, "artifact reload failed, keeping previous artifact", "error", err)
			}
		}
		return svc.Refresh(ctx)
	}); err != nil {
		return err
	}
	if err := sched.Register("report", cfg.Schedule.ReportCron, func(ctx context.Context) error {
		_, _, err := svc.RunBatch(ctx)
		return err
	}); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// REST API
	router := api.NewRouter(svc, log, api.Options{
		RateLimitRPM: cfg.Server.RateLimitRPM,
		Metrics:      cfg.Telemetry.Enabled,
	})
	server := api.NewServer(cfg.Server.Port, router, log)
	server.Start()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "api server shutdown failed", "error", err)
	}
	if err := healthServer.Stop(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "health server shutdown failed", "error", err)
	}
	return nil
}
