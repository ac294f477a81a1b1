package draftstats

import (
	"strings"
	"testing"

	"github.com/riskibarqy/commishbot/internal/domain/season"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftIQ(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		roi     *float64
		hitRate *float64
		want    float64
	}{
		{name: "no auction data", want: 50},
		{name: "roi capped at 25", roi: ptr(12.0), hitRate: ptr(60.0), want: 90},
		{name: "small roi", roi: ptr(2.0), want: 60},
		{name: "clamped to 100", roi: ptr(20.0), hitRate: ptr(100.0), want: 100},
		{name: "negative roi", roi: ptr(-20.0), want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			for i := 0; i < 3; i++ {
				assert.Equal(t, tc.want, DraftIQ(tc.roi, tc.hitRate))
			}
		})
	}
}

func TestRiskTolerance(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()
	assert.Equal(t, 0.0, RiskTolerance(nil, nil, th))
	assert.Equal(t, 30.0, RiskTolerance(ptr(70), ptr(8.0), th))
	assert.Equal(t, 60.0, RiskTolerance(ptr(70), ptr(21.0), th))
	assert.Equal(t, 100.0, RiskTolerance(ptr(150), ptr(30.0), th))
	assert.Equal(t, 30.0, RiskTolerance(ptr(50), ptr(25.0), th))
}

func TestConsistencyScore(t *testing.T) {
	t.Parallel()

	s := OwnerDraftStats{Complex: EmptyComplexStats()}
	assert.Equal(t, 50.0, ConsistencyScore(s))

	s.Complex.FavoritePosition = &PositionShare{Position: "RB", Percentage: 41}
	s.Complex.TopTeams = []TeamShare{{Team: "JAX", Percentage: 12}}
	s.Complex.RepeatPlayers = []RepeatPlayer{{Player: "A", Count: 4}, {Player: "B", Count: 3}, {Player: "C", Count: 2}}
	s.EarliestPick, s.LatestPick, s.AvgDraftPosition = ptr(1), ptr(100), ptr(40.0)
	// 50 + 20 + 10 + 10 + 5
	assert.Equal(t, 95.0, ConsistencyScore(s))

	s.Complex.RepeatPlayers = append(s.Complex.RepeatPlayers, RepeatPlayer{Player: "D", Count: 3})
	s.AvgDraftPosition = ptr(60.0)
	assert.Equal(t, 100.0, ConsistencyScore(s))
}

func TestValueHuntingScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 20.0, ValueHuntingScore(OwnerDraftStats{}))

	bargain := OwnerDraftStats{
		AuctionAvgValue: ptr(9.0),
		AuctionROI:      ptr(13.0),
		AuctionMaxBid:   ptr(20),
		AuctionHitRate:  ptr(55.0),
	}
	assert.Equal(t, 100.0, ValueHuntingScore(bargain))

	spender := OwnerDraftStats{
		AuctionAvgValue: ptr(26.0),
		AuctionROI:      ptr(7.0),
		AuctionMaxBid:   ptr(140),
	}
	assert.Equal(t, 0.0, ValueHuntingScore(spender))
}

func TestClassifyArchetype(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()
	tests := []struct {
		name  string
		stats OwnerDraftStats
		want  Archetype
	}{
		{
			name:  "max bid wins over low average",
			stats: OwnerDraftStats{AuctionMaxBid: ptr(70), AuctionAvgValue: ptr(8.0), TotalPicks: 140},
			want:  ArchetypeShark,
		},
		{
			name:  "low average",
			stats: OwnerDraftStats{AuctionMaxBid: ptr(40), AuctionAvgValue: ptr(8.0)},
			want:  ArchetypeValueVulture,
		},
		{
			name: "blob consistency",
			stats: OwnerDraftStats{
				AuctionAvgValue: ptr(15.0),
				Complex:         ComplexStats{DraftTrends: DraftTrends{Consistency: 81}},
			},
			want: ArchetypePrecisionDrafter,
		},
		{
			name:  "many repeat players",
			stats: OwnerDraftStats{Complex: ComplexStats{RepeatPlayers: make([]RepeatPlayer, 6)}},
			want:  ArchetypeLoyaltyLegend,
		},
		{
			name:  "no auction history falls through",
			stats: OwnerDraftStats{TotalPicks: 60},
			want:  ArchetypeChaosAgent,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ClassifyArchetype(tc.stats, th))
		})
	}
}

func TestAnalyze_DeterministicAndCapped(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()
	s := OwnerDraftStats{
		Owner:           "Todd",
		Range:           season.Range{Min: 2010, Max: 2024},
		TotalPicks:      140,
		AuctionMaxBid:   ptr(70),
		AuctionAvgValue: ptr(24.0),
		AuctionROI:      ptr(13.0),
		AuctionHitRate:  ptr(70.0),
		AuctionBustRate: ptr(35.0),
		Complex: ComplexStats{
			PositionFrequency: map[string]int{"RB": 60, "WR": 60, "QB": 20},
			PositionByRound: PositionByRound{
				Early: map[string]int{"RB": 30, "WR": 6},
				Late:  map[string]int{"QB": 8, "TE": 4, "K": 2},
			},
			FavoritePosition: &PositionShare{Position: "RB", Count: 60, Percentage: 42.9},
			TopTeams:         []TeamShare{{Team: "JAX", Count: 30, Percentage: 21.4}},
			RepeatPlayers: []RepeatPlayer{
				{Player: "Fred Taylor", Count: 4, AvgDraftPosition: ptr(110.0)},
				{Player: "MJD", Count: 3, AvgDraftPosition: ptr(12.0)},
				{Player: "Lee Evans", Count: 2, AvgDraftPosition: ptr(130.0)},
				{Player: "Deep One", Count: 2, AvgDraftPosition: ptr(140.0)},
				{Player: "Deep Two", Count: 2, AvgDraftPosition: ptr(150.0)},
				{Player: "A", Count: 2}, {Player: "B", Count: 2},
			},
			DraftTrends: DraftTrends{Consistency: 90, ReachRate: 45},
		},
	}

	first := Analyze(s, th)
	second := Analyze(s, th)
	require.Equal(t, first, second)

	assert.Equal(t, ArchetypeShark, first.Metrics.Archetype)
	assert.LessOrEqual(t, len(first.SignatureMoves), maxSignatureMoves)
	assert.Len(t, first.EliteTraits, maxEliteTraits)
	assert.LessOrEqual(t, len(first.PositionArchitecture), maxPositionArchitecture)
	assert.LessOrEqual(t, len(first.Predictions), maxPredictions)
	assert.Len(t, first.Sleepers, maxSleepers)
	assert.Contains(t, first.Sleepers[0], "Fred Taylor")
	assert.NotEmpty(t, first.Recommendations)
}

func TestAnalyze_EmptyBlob(t *testing.T) {
	t.Parallel()

	got := Analyze(OwnerDraftStats{Owner: "Zed", TotalPicks: 3}, DefaultThresholds())
	assert.Equal(t, ArchetypeChaosAgent, got.Metrics.Archetype)
	assert.Empty(t, got.Sleepers)
	assert.Equal(t, []string{"🏗️ Pick a plan and stick to it"}, got.Recommendations)
}

func TestAnalyze_RuleCutoffsComeFromThresholds(t *testing.T) {
	t.Parallel()

	s := OwnerDraftStats{
		Owner:           "Todd",
		TotalPicks:      40,
		AuctionHitRate:  ptr(45.0),
		AuctionBustRate: ptr(25.0),
		Complex: ComplexStats{
			FavoritePosition: &PositionShare{Position: "WR", Count: 10, Percentage: 25},
			DraftTrends:      DraftTrends{ReachRate: 35},
		},
	}

	defaults := Analyze(s, DefaultThresholds())
	assert.NotContains(t, strings.Join(defaults.SignatureMoves, "\n"), "Heavy WR drafter")
	assert.NotContains(t, strings.Join(defaults.SignatureMoves, "\n"), "Aggressive early")
	assert.NotContains(t, strings.Join(defaults.Recommendations, "\n"), "busts")
	assert.NotContains(t, strings.Join(defaults.Recommendations, "\n"), "Trust the numbers")

	th := DefaultThresholds()
	th.HeavyPositionShare = 20
	th.AggressiveReachRate = 30
	th.HighBustRate = 20
	th.LowHitRate = 50
	tuned := Analyze(s, th)
	assert.Contains(t, strings.Join(tuned.SignatureMoves, "\n"), "Heavy WR drafter")
	assert.Contains(t, strings.Join(tuned.SignatureMoves, "\n"), "Aggressive early")
	assert.Contains(t, strings.Join(tuned.Recommendations, "\n"), "busts")
	assert.Contains(t, strings.Join(tuned.Recommendations, "\n"), "Trust the numbers")
}
