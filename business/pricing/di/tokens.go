// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/smart-pricing/business/pricing/app"
	"github.com/fd1az/smart-pricing/business/pricing/infra/artifact"
	"github.com/fd1az/smart-pricing/internal/di"
)

// Public service tokens - exposed to other modules
var (
	DecisionEngine  = di.NewToken[*app.DecisionEngine]("pricing.DecisionEngine")
	ArtifactAdapter = di.NewToken[*artifact.Adapter]("pricing.ArtifactAdapter")
)

// Private dependency tokens - internal to pricing module
var (
	PrimaryStrategy  = di.NewToken[app.Strategy]("pricing:primaryStrategy")
	FallbackStrategy = di.NewToken[app.Strategy]("pricing:fallbackStrategy")
)

// Helper functions for type-safe access
func GetDecisionEngine(c di.ServiceRegistry) *app.DecisionEngine {
	return di.GetToken(c, DecisionEngine)
}

func GetArtifactAdapter(c di.ServiceRegistry) *artifact.Adapter {
	return di.GetToken(c, ArtifactAdapter)
}

func GetFallbackStrategy(c di.ServiceRegistry) app.Strategy {
	return di.GetToken(c, FallbackStrategy)
}

// GetPrimaryStrategy returns nil when no artifact location is configured.
func GetPrimaryStrategy(c di.ServiceRegistry) app.Strategy {
	if v, ok := c.Get(PrimaryStrategy.Key()).(app.Strategy); ok {
		return v
	}
	return nil
}
