package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/commishbot/internal/app"
	"github.com/riskibarqy/commishbot/internal/config"
	"github.com/riskibarqy/commishbot/internal/interfaces/discordbot"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.RequireDiscord(true); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewService(cfg.LogLevel, cfg.ServiceName+"-deploy", cfg.ServiceVersion, cfg.AppEnv)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := discordbot.NewSession(cfg.DiscordToken)
	if err != nil {
		logger.Error("create discord session", "error", err)
		os.Exit(1)
	}

	// Definitions never call the lookup, so no database is needed here.
	defs := app.Commands(nil, nil, cfg.Thresholds(), logger).Definitions()
	scope := cfg.DiscordGuildID
	if scope == "" {
		scope = "global"
	}
	logger.Info("refreshing application commands", "count", len(defs), "scope", scope)

	created, err := discordbot.DeployCommands(ctx, session, cfg.DiscordClientID, cfg.DiscordGuildID, defs)
	if err != nil {
		logger.Error("deploy commands failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("reloaded application commands", "count", len(created), "scope", scope)
}
