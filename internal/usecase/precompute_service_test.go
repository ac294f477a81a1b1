package usecase

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commishbot/internal/domain/draft"
	"github.com/riskibarqy/commishbot/internal/domain/draftstats"
	"github.com/riskibarqy/commishbot/internal/domain/jobstatus"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type precomputeFixture struct {
	source  *stubDraftSource
	picks   *stubPickRepository
	scores  *stubScoreRepository
	stats   *stubDraftStatsRepository
	status  *stubStatusRepository
	migrate *stubMigrator
	service *PrecomputeService
}

func newPrecomputeFixture(source *stubDraftSource) *precomputeFixture {
	f := &precomputeFixture{
		source:  source,
		picks:   &stubPickRepository{picks: []draft.Pick{{Owner: "Stale", Season: 2016, AuctionValue: 1}}},
		scores:  &stubScoreRepository{},
		stats:   &stubDraftStatsRepository{},
		status:  &stubStatusRepository{},
		migrate: &stubMigrator{},
	}
	f.service = NewPrecomputeService(PrecomputeDeps{
		Source:     f.source,
		Migrator:   f.migrate,
		PickRepo:   f.picks,
		ScoreRepo:  f.scores,
		StatsRepo:  f.stats,
		StatusRepo: f.status,
		Thresholds: draftstats.DefaultThresholds(),
	})
	return f
}

func weekly(player string, year int, points ...int64) []draft.WeeklyScore {
	out := make([]draft.WeeklyScore, 0, len(points))
	for i, p := range points {
		out = append(out, draft.WeeklyScore{Player: player, Season: year, Week: i + 1, Points: decimal.NewFromInt(p)})
	}
	return out
}

func TestPrecomputeService_Run_SingleAuctionSeason(t *testing.T) {
	t.Parallel()

	scores := append(weekly("Alpha", 2016, 20, 30), weekly("Bravo", 2016, 100)...)
	scores = append(scores, weekly("Charlie", 2016, 400, 50)...)
	f := newPrecomputeFixture(&stubDraftSource{
		picks: []draft.Pick{
			{Owner: "Todd", Player: "Alpha", AuctionValue: 10, Season: 2016},
			{Owner: "Todd", Player: "Bravo", AuctionValue: 20, Season: 2016},
			{Owner: "Todd", Player: "Charlie", AuctionValue: 30, Season: 2016},
		},
		scores: map[int][]draft.WeeklyScore{2016: scores},
	})

	r := season.Range{Min: 2016, Max: 2016}
	summary, err := f.service.Run(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, 1, f.migrate.calls)
	assert.Equal(t, 3, summary.Picks)
	assert.Equal(t, 3, summary.PlayerScores)
	assert.Equal(t, 1, summary.Owners)
	assert.Equal(t, []season.Range{r}, f.scores.deleted)
	assert.Equal(t, []season.Range{r}, f.stats.deleted)

	require.Len(t, f.stats.upserted, 1)
	got := f.stats.upserted[0]
	assert.Equal(t, "Todd", got.Owner)
	require.NotNil(t, got.AuctionROI)
	assert.Equal(t, 10.0, *got.AuctionROI)
	assert.Equal(t, 33.3, *got.AuctionHitRate)
	assert.Equal(t, 0.0, *got.AuctionBustRate)

	run, ok, err := f.status.Latest(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, jobstatus.StatusCompleted, run.Status)
	require.NotNil(t, run.TotalRecords)
	assert.Equal(t, 3, *run.TotalRecords)
	assert.NotNil(t, run.CompletedAt)
}

func TestPrecomputeService_Run_ScoresFetchedYearByYearFromCutover(t *testing.T) {
	t.Parallel()

	f := newPrecomputeFixture(&stubDraftSource{
		picks: []draft.Pick{{Owner: "Todd", Player: "Old", DraftPosition: 3, Season: 2012}},
	})

	_, err := f.service.Run(context.Background(), season.Range{Min: 2012, Max: 2017})
	require.NoError(t, err)
	assert.Equal(t, []season.Range{{Min: 2015, Max: 2015}, {Min: 2016, Max: 2016}, {Min: 2017, Max: 2017}}, f.source.scoreRanges)
	assert.Equal(t, []season.Range{{Min: 2015, Max: 2017}}, f.scores.deleted)
}

func TestPrecomputeService_Run_SkipsScoresBeforeCutover(t *testing.T) {
	t.Parallel()

	f := newPrecomputeFixture(&stubDraftSource{
		picks: []draft.Pick{{Owner: "Todd", Player: "Old", DraftPosition: 3, Season: 2012}},
	})

	summary, err := f.service.Run(context.Background(), season.Range{Min: 2010, Max: 2014})
	require.NoError(t, err)
	assert.Empty(t, f.source.scoreRanges)
	assert.Equal(t, 1, summary.Owners)
}

func TestPrecomputeService_Run_FailedYearAbortsAndRecordsError(t *testing.T) {
	t.Parallel()

	f := newPrecomputeFixture(&stubDraftSource{
		picks:    []draft.Pick{{Owner: "Todd", Player: "Alpha", AuctionValue: 10, Season: 2018}},
		failYear: 2017,
	})

	_, err := f.service.Run(context.Background(), season.Range{Min: 2016, Max: 2018})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDependencyUnavailable))
	assert.Empty(t, f.stats.upserted)
	assert.Empty(t, f.stats.deleted)

	run, ok, _ := f.status.Latest(context.Background())
	require.True(t, ok)
	assert.Equal(t, jobstatus.StatusError, run.Status)
	assert.Contains(t, run.ErrorMessage, "2017")
}

func TestPrecomputeService_Run_RejectsRangeOutsideBounds(t *testing.T) {
	t.Parallel()

	f := newPrecomputeFixture(&stubDraftSource{})
	_, err := f.service.Run(context.Background(), season.Range{Min: 2005, Max: 2024})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Zero(t, f.migrate.calls)
}

func TestPrecomputeService_Run_SchemaFailure(t *testing.T) {
	t.Parallel()

	f := newPrecomputeFixture(&stubDraftSource{})
	f.migrate.err = errors.New("permission denied")

	_, err := f.service.Run(context.Background(), season.Range{Min: 2016, Max: 2016})
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	_, ok, _ := f.status.Latest(context.Background())
	assert.False(t, ok)
}
