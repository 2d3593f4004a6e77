// Package monolith provides the application container and module interface.
package monolith

import (
	"context"

	"github.com/fd1az/smart-pricing/internal/config"
	"github.com/fd1az/smart-pricing/internal/di"
	"github.com/fd1az/smart-pricing/internal/httpclient"
	"github.com/fd1az/smart-pricing/internal/logger"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	HTTPClient() httpclient.Client
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// Shared service keys registered by New.
const (
	ConfigKey     = "config"
	LoggerKey     = "logger"
	HTTPClientKey = "httpClient"
)

// artifactFetchRPM caps remote artifact fetches.
const artifactFetchRPM = 60

// App implements the Monolith interface.
type App struct {
	config     *config.Config
	logger     logger.LoggerInterface
	httpClient httpclient.Client
	container  di.Container
}

// New creates a new App. The HTTP client is used for remote artifacts.
func New(cfg *config.Config, log logger.LoggerInterface) (*App, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("artifact"),
		httpclient.WithRequestTimeout(cfg.Artifact.Timeout),
		httpclient.WithRateLimit(artifactFetchRPM),
	)
	if err != nil {
		return nil, err
	}

	container := di.NewContainer()
	container.Register(ConfigKey, cfg)
	container.Register(LoggerKey, log)
	container.Register(HTTPClientKey, client)

	return &App{
		config:     cfg,
		logger:     log,
		httpClient: client,
		container:  container,
	}, nil
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *App) HTTPClient() httpclient.Client {
	return a.httpClient
}

func (a *App) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *App) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *App) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *App) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
