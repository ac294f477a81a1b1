package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/commishbot/external/wpfl"
	"github.com/riskibarqy/commishbot/internal/config"
	"github.com/riskibarqy/commishbot/internal/domain/draftstats"
	"github.com/riskibarqy/commishbot/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/commishbot/internal/interfaces/discordbot"
	"github.com/riskibarqy/commishbot/internal/interfaces/healthapi"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/riskibarqy/commishbot/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const dbPingTimeout = 5 * time.Second

// App holds the process-wide dependencies shared by the bot and the
// precompute job.
type App struct {
	cfg        config.Config
	logger     *logging.Logger
	db         *sqlx.DB
	thresholds draftstats.Thresholds
	league     *wpfl.Client

	Trends     *usecase.DraftTrendsService
	Precompute *usecase.PrecomputeService
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	thresholds := cfg.Thresholds()
	statsRepo := postgres.NewOwnerDraftStatsRepository(db, logger)
	source := wpfl.NewClient(wpfl.ClientConfig{
		BaseURL:        cfg.WPFLBaseURL,
		Timeout:        cfg.WPFLTimeout,
		MaxRetries:     cfg.WPFLMaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.WPFLCircuit,
	})

	return &App{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		thresholds: thresholds,
		league:     source,
		Trends:     usecase.NewDraftTrendsService(statsRepo, thresholds, logger),
		Precompute: usecase.NewPrecomputeService(usecase.PrecomputeDeps{
			Source:     source,
			Migrator:   postgres.NewSchemaMigrator(NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary), logger),
			PickRepo:   postgres.NewDraftPickRepository(db),
			ScoreRepo:  postgres.NewPlayerScoreRepository(db),
			StatsRepo:  statsRepo,
			StatusRepo: postgres.NewComputationStatusRepository(db),
			Thresholds: thresholds,
			Logger:     logger,
		}),
	}, nil
}

// OpenDB opens a traced sqlx pool and verifies it answers.
func OpenDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(max(cfg.DBMaxOpenConns/2, 1))
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected", "db_name", dbNameFromURL(dsn), "max_open_conns", cfg.DBMaxOpenConns)
	return db, nil
}

// Commands is the slash command set the bot serves and deploycommands
// registers.
func (a *App) Commands() *discordbot.Registry {
	return Commands(a.Trends, a.league, a.thresholds, a.logger)
}

func Commands(trends discordbot.DraftTrendsLookup, league discordbot.LeagueStatsSource, thresholds draftstats.Thresholds, logger *logging.Logger) *discordbot.Registry {
	// Weekly summaries also cover the season in progress.
	seasons := discordbot.LeagueSeasons{Min: thresholds.SeasonMin, Max: thresholds.SeasonMax + 1}
	return discordbot.NewRegistry(
		discordbot.NewDraftTrendsCommand(trends, thresholds, logger),
		discordbot.NewExpectedWinsCommand(league, seasons, logger),
		discordbot.NewOptimalCommand(league, seasons, logger),
		discordbot.NewFlipCommand(),
		discordbot.NewRollCommand(),
	)
}

// NewBot connects a gateway session to the command dispatcher.
func (a *App) NewBot() (*discordbot.Bot, error) {
	session, err := discordbot.NewSession(a.cfg.DiscordToken)
	if err != nil {
		return nil, err
	}
	dispatcher, err := discordbot.NewDispatcher(a.Commands(), a.cfg.CommandWorkers, a.cfg.CommandTimeout, a.logger)
	if err != nil {
		return nil, err
	}
	return discordbot.NewBot(discordbot.BotConfig{
		Session:    session,
		Dispatcher: dispatcher,
		Presence:   a.cfg.DiscordPresence,
		Logger:     a.logger,
	}), nil
}

func (a *App) HealthServer() *healthapi.Server {
	return healthapi.NewServer(a.db, a.cfg.ServiceVersion, a.logger)
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
