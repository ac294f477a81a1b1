package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/commishbot/internal/app"
	"github.com/riskibarqy/commishbot/internal/config"
	"github.com/riskibarqy/commishbot/internal/observability"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.RequireDiscord(false); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewService(cfg.LogLevel, cfg.ServiceName, cfg.ServiceVersion, cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("bot stopped with error", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("bot stopped")
}

func run(cfg config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Init(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	bot, err := application.NewBot()
	if err != nil {
		return err
	}
	health := application.HealthServer()

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		return bot.Run(ctx)
	})
	p.Go(func(ctx context.Context) error {
		return health.ListenAndServe(cfg.HealthAddr)
	})
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return health.Shutdown(shutdownCtx)
	})

	logger.Info("bot starting", "health_addr", cfg.HealthAddr, "workers", cfg.CommandWorkers)
	return p.Wait()
}
