// Package pricing implements the pricing bounded context: rule-based and
// learned-model price decisions.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-pricing/business/pricing/app"
	pricingDI "github.com/fd1az/smart-pricing/business/pricing/di"
	"github.com/fd1az/smart-pricing/business/pricing/domain"
	"github.com/fd1az/smart-pricing/business/pricing/infra/artifact"
	"github.com/fd1az/smart-pricing/internal/circuitbreaker"
	"github.com/fd1az/smart-pricing/internal/config"
	"github.com/fd1az/smart-pricing/internal/di"
	"github.com/fd1az/smart-pricing/internal/httpclient"
	"github.com/fd1az/smart-pricing/internal/logger"
	"github.com/fd1az/smart-pricing/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register ArtifactAdapter (public - used for reloads and health checks)
	di.RegisterToken(c, pricingDI.ArtifactAdapter, func(sr di.ServiceRegistry) *artifact.Adapter {
		cfg := sr.Get(monolith.ConfigKey).(*config.Config)
		log := sr.Get(monolith.LoggerKey).(logger.LoggerInterface)
		client := sr.Get(monolith.HTTPClientKey).(httpclient.Client)

		breaker := circuitbreaker.DefaultConfig("artifact")
		breaker.MaxFailures = cfg.Artifact.Breaker.MaxFailures
		breaker.Timeout = cfg.Artifact.Breaker.OpenTimeout

		adapter, err := artifact.NewAdapter(artifact.Config{
			Location: cfg.Artifact.Location,
			Cache:    cfg.Artifact.Cache,
			Timeout:  cfg.Artifact.Timeout,
			Breaker:  breaker,
		}, client, log)
		if err != nil {
			panic("failed to create artifact adapter: " + err.Error())
		}
		return adapter
	})

	// Register the learned-model strategy only when an artifact is configured
	cfg := c.Get(monolith.ConfigKey).(*config.Config)
	if cfg.Artifact.Location != "" {
		di.RegisterToken(c, pricingDI.PrimaryStrategy, func(sr di.ServiceRegistry) app.Strategy {
			return app.NewLearnedModelStrategy[*artifact.Artifact](pricingDI.GetArtifactAdapter(sr))
		})
	}

	di.RegisterToken(c, pricingDI.FallbackStrategy, func(sr di.ServiceRegistry) app.Strategy {
		cfg := sr.Get(monolith.ConfigKey).(*config.Config)
		return app.NewRuleBasedStrategy(RulePolicy(cfg.Pricing.Rules), cfg.Pricing.MinMarginDecimal())
	})

	// Register DecisionEngine (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.DecisionEngine, func(sr di.ServiceRegistry) *app.DecisionEngine {
		cfg := sr.Get(monolith.ConfigKey).(*config.Config)
		log := sr.Get(monolith.LoggerKey).(logger.LoggerInterface)

		engine, err := app.NewDecisionEngine(
			pricingDI.GetPrimaryStrategy(sr),
			pricingDI.GetFallbackStrategy(sr),
			cfg.Pricing.BatchWorkers,
			log,
		)
		if err != nil {
			panic("failed to create decision engine: " + err.Error())
		}
		return engine
	})

	return nil
}

// Startup warms the artifact cache. A failed load is not fatal: decisions
// fall back to the rule-based strategy until a reload succeeds.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	engine := pricingDI.GetDecisionEngine(mono.Services())
	if engine.RuleOnly() {
		log.Info(ctx, "pricing module started in rule-based mode")
		return nil
	}

	adapter := pricingDI.GetArtifactAdapter(mono.Services())
	art, err := adapter.Load(ctx)
	if err != nil {
		log.Warn(ctx, "scoring artifact unavailable, using rule-based fallback",
			"location", cfg.Artifact.Location, "error", err)
		return nil
	}

	log.Info(ctx, "pricing module started", "artifact_kind", art.Kind, "artifact_version", art.Version,
		"cache", cfg.Artifact.Cache)
	return nil
}

// RulePolicy converts configured thresholds to a domain policy.
func RulePolicy(rc config.RulesConfig) domain.RulePolicy {
	return domain.RulePolicy{
		HighDemand:             decimal.NewFromFloat(rc.HighDemand),
		HighDemandMaxInventory: rc.HighDemandMaxInventory,
		LowDemand:              decimal.NewFromFloat(rc.LowDemand),
		LowDemandMinInventory:  rc.LowDemandMinInventory,
		SoftDemand:             decimal.NewFromFloat(rc.SoftDemand),
		Raise:                  decimal.NewFromFloat(rc.Raise),
		Cut:                    decimal.NewFromFloat(rc.Cut),
		SoftCut:                decimal.NewFromFloat(rc.SoftCut),
	}
}
