package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/ar-shop/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// Runner is a background worker that stops when its context is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// App encapsulates the HTTP server and background worker lifecycle.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	consumer Runner
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, consumer Runner) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, consumer: consumer}
}

// Run starts the HTTP server and the activity consumer and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if a.consumer != nil {
		group.Go(func() error {
			if err := a.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
