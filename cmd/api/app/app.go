package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"user-registration-service/cmd/api/di"
	"user-registration-service/cmd/api/server"
	"user-registration-service/internal/config"
	"user-registration-service/pkg/logger"
)

// App owns the process lifecycle: configuration, logger, dependency
// container and HTTP server.
type App struct {
	cfg       *config.Config
	log       *zap.Logger
	container *di.Container
	server    *server.Server
}

// New loads configuration from CONFIG_PATH (default ".") and builds every
// dependency. The upload store and database are ready when it returns.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig(envOr("CONFIG_PATH", "."))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    envOr("APP_ENV", "development"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Error("failed to build dependencies", zap.Error(err))
		_ = log.Sync()
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		cfg:       cfg,
		log:       log,
		container: container,
		server:    server.New(cfg, log, container),
	}, nil
}

// Run serves HTTP until ctx is canceled or the server fails, then drains
// in-flight requests and releases the container.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting application",
		zap.String("service", a.cfg.Logger.ServiceName),
		zap.String("version", a.cfg.Logger.ServiceVersion),
		zap.String("port", a.cfg.App.HTTPPort),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.server.Start)
	g.Go(func() error {
		<-gctx.Done()
		return a.stopServer()
	})

	err := g.Wait()
	if cerr := a.container.Close(); cerr != nil {
		a.log.Error("failed to close container", zap.Error(cerr))
		err = errors.Join(err, fmt.Errorf("container close: %w", cerr))
	}

	a.log.Info("application stopped")
	// stdout and stderr cannot be synced on most platforms
	_ = a.log.Sync()
	return err
}

func (a *App) stopServer() error {
	timeout := time.Duration(a.cfg.App.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.log.Info("shutting down HTTP server", zap.Duration("timeout", timeout))
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
