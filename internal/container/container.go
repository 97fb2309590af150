package container

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"penguinexplorer/adapters/dataset"
	"penguinexplorer/app"
	"penguinexplorer/internal"
	"penguinexplorer/internal/config"
	"penguinexplorer/internal/metrics"
	"penguinexplorer/internal/ops"
	"penguinexplorer/ui"

	"golang.org/x/sync/errgroup"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Metrics *metrics.Metrics
	Source  *dataset.Source

	// Dashboard is nil when the dataset failed to load; LoadErr says why
	Dashboard *app.DashboardService
	LoadErr   error

	UI  *ui.Server
	Ops *ops.Server
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	}

	m := metrics.New()
	return &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Source:  dataset.NewSource(cfg.Data.File, logger, m),
	}, nil
}

// Init loads the dataset once and wires the servers. A failed load is not an
// error here: the dashboard starts and shows the load error on every page.
func (c *Container) Init(ctx context.Context) error {
	ds, err := c.Source.Load(ctx)
	if err != nil {
		c.Logger.Error("[Container] Dataset %s unavailable: %v", c.Source.Path(), err)
		c.LoadErr = err
	} else {
		c.Dashboard = app.NewDashboardService(ds, c.Logger, c.Metrics)
	}

	c.UI = ui.NewServer(c.Logger)
	if err := c.UI.Initialize(c.Dashboard, c.LoadErr, c.Metrics, c.Config.Data.LogoFile); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if c.Config.Ops.Enabled {
		c.Ops = ops.NewServer(c.Metrics.Registry, c.Source, c.Logger)
	}
	return nil
}

// Run serves the dashboard, and the ops endpoints when enabled, until ctx is
// cancelled or a listener fails. Both servers are then shut down within the
// configured timeout.
func (c *Container) Run(ctx context.Context) error {
	if c.UI == nil {
		return fmt.Errorf("container is not initialized")
	}

	servers := []*http.Server{c.UI.HTTPServer(net.JoinHostPort("", c.Config.Server.Port))}
	if c.Ops != nil {
		servers = append(servers, c.Ops.HTTPServer(net.JoinHostPort("", c.Config.Ops.Port)))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			c.Logger.Info("[Container] Listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("server on %s failed: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return c.Shutdown(servers...)
	})

	return g.Wait()
}

// Shutdown stops the given servers, waiting at most the configured timeout
func (c *Container) Shutdown(servers ...*http.Server) error {
	timeout := c.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c.Logger.Info("[Container] Shutting down")
	var firstErr error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutdown of %s failed: %w", srv.Addr, err)
		}
	}
	return firstErr
}
