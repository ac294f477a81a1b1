package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SEASON_MIN", "")
	t.Setenv("SEASON_MAX", "")
	t.Setenv("LOG_LEVEL", "warning")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, logging.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 2010, cfg.SeasonMin)
	assert.Equal(t, 2024, cfg.SeasonMax)
	assert.Equal(t, "https://wpflapi.azurewebsites.net/api", cfg.WPFLBaseURL)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.True(t, cfg.WPFLCircuit.Enabled)
	assert.Equal(t, "Jaguars Highlights", cfg.DiscordPresence)
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SeasonValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("min after max", func(t *testing.T) {
		t.Setenv("SEASON_MIN", "2024")
		t.Setenv("SEASON_MAX", "2010")
		_, err := Load()
		assert.ErrorContains(t, err, "season configuration")
	})

	t.Run("cutover outside range", func(t *testing.T) {
		t.Setenv("SCORES_START_YEAR", "2030")
		_, err := Load()
		assert.ErrorContains(t, err, "scores start year")
	})

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("AUCTION_START_YEAR", "twenty-sixteen")
		_, err := Load()
		assert.ErrorContains(t, err, "parse AUCTION_START_YEAR")
	})
}

func TestLoad_ThresholdsFollowSeasonKeys(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SEASON_MIN", "2012")
	t.Setenv("SEASON_MAX", "2025")
	t.Setenv("AUCTION_START_YEAR", "2017")

	cfg, err := Load()
	require.NoError(t, err)

	th := cfg.Thresholds()
	assert.Equal(t, 2012, th.SeasonMin)
	assert.Equal(t, 2025, th.SeasonMax)
	assert.Equal(t, 2017, th.AuctionStartYear)
	assert.Equal(t, 2015, th.ScoresStartYear)
	assert.Equal(t, 12, th.RoundsPerDraft)
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	_, err := Load()
	assert.ErrorContains(t, err, "UPTRACE_DSN")
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn='https://token@api.uptrace.dev/1'")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://token@api.uptrace.dev/1", cfg.UptraceDSN)
}

func TestLoad_PyroscopeRequiresServer(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	_, err := Load()
	assert.ErrorContains(t, err, "PYROSCOPE_SERVER_ADDRESS")
}

func TestLoad_CircuitOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WPFL_CIRCUIT_ENABLED", "false")
	t.Setenv("WPFL_CIRCUIT_FAILURE_COUNT", "7")
	t.Setenv("WPFL_CIRCUIT_OPEN_TIMEOUT", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.WPFLCircuit.Enabled)
	assert.Equal(t, 7, cfg.WPFLCircuit.FailureThreshold)
	assert.Equal(t, time.Minute, cfg.WPFLCircuit.OpenTimeout)
}

func TestConfig_RequireDiscord(t *testing.T) {
	assert.ErrorContains(t, Config{}.RequireDiscord(false), "DISCORD_TOKEN")
	assert.ErrorContains(t, Config{DiscordToken: "t"}.RequireDiscord(true), "DISCORD_CLIENT_ID")
	assert.NoError(t, Config{DiscordToken: "t"}.RequireDiscord(false))
}
