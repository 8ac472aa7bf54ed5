// Package app wires configuration, tools and transports into one process.
package app

import (
	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/config"
	"github.com/bobmcallan/saas-mcp/internal/dispatch"
	"github.com/bobmcallan/saas-mcp/internal/handlers"
	"github.com/bobmcallan/saas-mcp/internal/mcp"
	"github.com/bobmcallan/saas-mcp/internal/metrics"
	"github.com/bobmcallan/saas-mcp/internal/registry"
	"github.com/bobmcallan/saas-mcp/internal/runner"
	"github.com/bobmcallan/saas-mcp/internal/tools"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Metrics    *metrics.Metrics
	Tools      *tools.Set
	Registry   *registry.Registry
	Dispatcher *dispatch.Dispatcher
	MCPRouter  *mcp.Router

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
}

// Option customises the collaborators App.New builds.
type Option func(*tools.Deps)

// WithRunner replaces the process runner used by the shell-backed tools.
func WithRunner(r runner.Runner) Option {
	return func(d *tools.Deps) { d.Runner = r }
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	deps := tools.Deps{Config: cfg, Logger: logger}
	for _, opt := range opts {
		opt(&deps)
	}
	a.Tools = tools.New(deps)

	reg, d, err := tools.NewRegistry(a.Tools, logger, a.Metrics)
	if err != nil {
		return nil, err
	}
	a.Registry = reg
	a.Dispatcher = d
	a.MCPRouter = mcp.NewRouter(cfg.Server.Name, common.GetVersion(), d, logger)

	a.HealthHandler = handlers.NewHealthHandler(logger, reg.Len())
	a.VersionHandler = handlers.NewVersionHandler(cfg.Server.Name)

	logger.Info().
		Int("tools", reg.Len()).
		Str("transport", cfg.Server.Transport).
		Msg("application initialization complete")

	return a, nil
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
