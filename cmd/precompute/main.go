package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/commishbot/internal/app"
	"github.com/riskibarqy/commishbot/internal/config"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	"github.com/riskibarqy/commishbot/internal/observability"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"go.opentelemetry.io/otel"
)

type precomputeArgs struct {
	SeasonMin int `validate:"required"`
	SeasonMax int `validate:"required,gtefield=SeasonMin"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	r, err := parseArgs(os.Args[1:], cfg.Thresholds().Bounds())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nusage: %s [seasonMin] [seasonMax]\n", err, os.Args[0])
		os.Exit(1)
	}

	logger := logging.NewService(cfg.LogLevel, cfg.ServiceName+"-precompute", cfg.ServiceVersion, cfg.AppEnv)
	logging.SetDefault(logger)

	code := run(cfg, r, logger)
	_ = logger.Sync()
	os.Exit(code)
}

func run(cfg config.Config, r season.Range, logger *logging.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Init(cfg, logger)
	if err != nil {
		logger.Error("init telemetry", "error", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownTelemetry(flushCtx)
	}()

	ctx, span := otel.Tracer("commishbot/cmd/precompute").Start(ctx, "precompute "+r.String())
	defer span.End()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "build app", "error", err)
		return 1
	}
	defer func() { _ = application.Close() }()

	summary, err := application.Precompute.Run(ctx, r)
	if err != nil {
		logger.ErrorContext(ctx, "precompute failed", "range", r.String(), "error", err)
		return 1
	}
	logger.InfoContext(ctx, "precompute finished",
		"range", summary.Range.String(),
		"picks", summary.Picks,
		"player_scores", summary.PlayerScores,
		"owners", summary.Owners,
		"duration", summary.Duration,
	)
	return 0
}

// parseArgs reads the optional season arguments. A missing min or max
// defaults to the matching end of bounds.
func parseArgs(args []string, bounds season.Bounds) (season.Range, error) {
	if len(args) > 2 {
		return season.Range{}, fmt.Errorf("expected at most 2 arguments, got %d", len(args))
	}
	parsed := precomputeArgs{SeasonMin: bounds.Min, SeasonMax: bounds.Max}
	for i, dst := range []*int{&parsed.SeasonMin, &parsed.SeasonMax} {
		if i >= len(args) {
			break
		}
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return season.Range{}, fmt.Errorf("season %q is not a year", args[i])
		}
		*dst = v
	}

	if err := validator.New().Struct(parsed); err != nil {
		return season.Range{}, fmt.Errorf("invalid season range %d-%d: %w", parsed.SeasonMin, parsed.SeasonMax, err)
	}
	r := season.Range{Min: parsed.SeasonMin, Max: parsed.SeasonMax}
	if !bounds.Contains(r.Min) || !bounds.Contains(r.Max) {
		return season.Range{}, fmt.Errorf("season range %s outside %d-%d", r.String(), bounds.Min, bounds.Max)
	}
	return r, nil
}
