package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"EarnChart/internal/domain/repository"
	"EarnChart/pkg/cache"
	"EarnChart/pkg/config"
	xhttp "EarnChart/pkg/http"
	applogger "EarnChart/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	cache      cache.Service
	publisher  repository.EventPublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	c cache.Service,
	publisher repository.EventPublisher,
) *App {
	if logger == nil {
		logger = applogger.Nop()
	}
	a := &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		cache:     c,
		publisher: publisher,
	}
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORS(!cfg.Server.DisableCORS),
		xhttp.WithRateLimit(cfg.Server.RatePerSecond, cfg.Server.RateBurst),
		xhttp.WithLogger(logger),
	}
	if _, ok := c.(cache.Pinger); ok {
		opts = append(opts, xhttp.WithHealthCheck("cache", func(ctx context.Context) error {
			return cache.Ping(ctx, c)
		}))
	}
	a.httpServer = xhttp.NewServer(handler, opts...)
	return a
}

// HTTPServer exposes the HTTP server, mainly for tests.
func (a *App) HTTPServer() *xhttp.Server { return a.httpServer }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("earnchart api started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("cache", a.cfg.Cache.Type),
		applogger.Bool("events", a.cfg.KafkaEnabled()),
	)

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Shutdown stops the HTTP server and closes infrastructure clients.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("event publisher close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
