package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/config"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/scheduler"
)

// App encapsulates the HTTP server and report scheduler lifecycle.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	pools     pool.Service
	scheduler *scheduler.Scheduler
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, pools pool.Service, sched *scheduler.Scheduler) *App {
	return &App{
		cfg:       cfg,
		logger:    logger.With("component", "bootstrap"),
		server:    server,
		pools:     pools,
		scheduler: sched,
	}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Dosing.SeedInventory {
		if err := a.pools.SeedInventory(ctx); err != nil {
			return err
		}
	}

	if a.cfg.Reports.Enabled {
		a.scheduler.Start()
		if a.cfg.Reports.RunOnStart {
			go func() {
				if _, _, err := a.scheduler.RunNow(ctx); err != nil {
					a.logger.Error("startup profit report failed", "error", err)
				}
			}()
		}
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		a.stopScheduler(shutdownCtx)
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.stopScheduler(stopCtx)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) stopScheduler(ctx context.Context) {
	if a.cfg.Reports.Enabled {
		a.scheduler.Stop(ctx)
	}
}
