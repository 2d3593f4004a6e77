// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Data      DataConfig      `mapstructure:"data"`
	Artifact  ArtifactConfig  `mapstructure:"artifact"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Server    ServerConfig    `mapstructure:"server"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// DataConfig points at the catalog inputs and the batch report output.
type DataConfig struct {
	CompetitorPricesPath string `mapstructure:"competitor_prices_path"`
	InventoryPath        string `mapstructure:"inventory_path"`
	ReportPath           string `mapstructure:"report_path"`
	ReportFormat         string `mapstructure:"report_format"` // csv or xlsx
}

// ArtifactConfig holds scoring artifact settings.
// An empty Location runs the engine in rule-based mode only.
type ArtifactConfig struct {
	Location string        `mapstructure:"location"` // path, file:// or http(s):// URL
	Cache    bool          `mapstructure:"cache"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Breaker  BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig configures the circuit breaker around artifact loads.
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// PricingConfig holds rule-based pricing policy.
type PricingConfig struct {
	MinMargin    float64     `mapstructure:"min_margin"`
	BatchWorkers int         `mapstructure:"batch_workers"`
	Rules        RulesConfig `mapstructure:"rules"`
}

// RulesConfig mirrors domain.RulePolicy. Changing these values changes
// business policy.
type RulesConfig struct {
	HighDemand             float64 `mapstructure:"high_demand"`
	HighDemandMaxInventory int     `mapstructure:"high_demand_max_inventory"`
	LowDemand              float64 `mapstructure:"low_demand"`
	LowDemandMinInventory  int     `mapstructure:"low_demand_min_inventory"`
	SoftDemand             float64 `mapstructure:"soft_demand"`
	Raise                  float64 `mapstructure:"raise"`
	Cut                    float64 `mapstructure:"cut"`
	SoftCut                float64 `mapstructure:"soft_cut"`
}

// MinMarginDecimal returns min margin as decimal.Decimal.
func (c *PricingConfig) MinMarginDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinMargin)
}

// ServerConfig holds REST and health server settings.
type ServerConfig struct {
	Port         int `mapstructure:"port"`
	HealthPort   int `mapstructure:"health_port"`
	RateLimitRPM int `mapstructure:"rate_limit_rpm"`
}

// ScheduleConfig holds optional cron expressions (seconds field included).
type ScheduleConfig struct {
	ReloadCron string `mapstructure:"reload_cron"`
	ReportCron string `mapstructure:"report_cron"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	TraceProvider  string `mapstructure:"trace_provider"` // zipkin, console, otlp
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("PRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "PRICING_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "PRICING_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "PRICING_LOG_LEVEL", "LOG_LEVEL")

	// Data
	v.BindEnv("data.competitor_prices_path", "PRICING_COMPETITOR_PRICES_PATH", "COMPETITOR_PRICE_PATH")
	v.BindEnv("data.inventory_path", "PRICING_INVENTORY_PATH", "INVENTORY_PATH")
	v.BindEnv("data.report_path", "PRICING_REPORT_PATH")

	// Artifact
	v.BindEnv("artifact.location", "PRICING_ARTIFACT_LOCATION", "MODEL_PATH")
	v.BindEnv("artifact.cache", "PRICING_ARTIFACT_CACHE")

	// Server
	v.BindEnv("server.port", "PRICING_PORT", "PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "PRICING_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "PRICING_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "PRICING_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "smart-pricing")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("data.competitor_prices_path", "data/competitor_prices.csv")
	v.SetDefault("data.inventory_path", "data/inventory_demand.csv")
	v.SetDefault("data.report_path", "data/merged_data.csv")
	v.SetDefault("data.report_format", "csv")

	v.SetDefault("artifact.location", "model_files/model.json")
	v.SetDefault("artifact.cache", true)
	v.SetDefault("artifact.timeout", "2s")
	v.SetDefault("artifact.breaker.max_failures", 5)
	v.SetDefault("artifact.breaker.open_timeout", "30s")

	// Rule thresholds are business policy; keep in sync with domain.DefaultRulePolicy.
	v.SetDefault("pricing.min_margin", 0.10)
	v.SetDefault("pricing.batch_workers", 4)
	v.SetDefault("pricing.rules.high_demand", 0.8)
	v.SetDefault("pricing.rules.high_demand_max_inventory", 10)
	v.SetDefault("pricing.rules.low_demand", 0.3)
	v.SetDefault("pricing.rules.low_demand_min_inventory", 50)
	v.SetDefault("pricing.rules.soft_demand", 0.5)
	v.SetDefault("pricing.rules.raise", 0.10)
	v.SetDefault("pricing.rules.cut", -0.10)
	v.SetDefault("pricing.rules.soft_cut", -0.05)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.rate_limit_rpm", 600)

	v.SetDefault("schedule.reload_cron", "")
	v.SetDefault("schedule.report_cron", "")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "smart-pricing")
	v.SetDefault("telemetry.trace_provider", "zipkin")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data.CompetitorPricesPath == "" {
		return fmt.Errorf("data.competitor_prices_path is required")
	}
	if c.Data.InventoryPath == "" {
		return fmt.Errorf("data.inventory_path is required")
	}
	switch c.Data.ReportFormat {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("invalid data.report_format: %q (want csv or xlsx)", c.Data.ReportFormat)
	}
	if c.Pricing.MinMargin < 0 {
		return fmt.Errorf("pricing.min_margin must not be negative")
	}
	if c.Pricing.BatchWorkers < 1 {
		return fmt.Errorf("pricing.batch_workers must be at least 1")
	}
	if c.Artifact.Timeout < 0 {
		return fmt.Errorf("artifact.timeout must not be negative")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	return nil
}
