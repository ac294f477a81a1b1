package discordbot

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/commishbot/internal/domain/draftstats"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	"github.com/riskibarqy/commishbot/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func sharkReport(t draftstats.Thresholds) usecase.DraftTrendsReport {
	stats := draftstats.OwnerDraftStats{
		Owner:             "Todd",
		Range:             season.Range{Min: 2010, Max: 2024},
		TotalPicks:        140,
		SnakePicks:        60,
		AuctionPicks:      80,
		AvgDraftPosition:  floatPtr(64.2),
		EarliestPick:      intPtr(1),
		LatestPick:        intPtr(150),
		AuctionTotalSpent: 640,
		AuctionAvgValue:   floatPtr(8),
		AuctionMaxBid:     intPtr(70),
		AuctionMinBid:     intPtr(1),
		AuctionROI:        floatPtr(10),
		AuctionHitRate:    floatPtr(33.3),
		AuctionBustRate:   floatPtr(0),
		Complex:           draftstats.EmptyComplexStats(),
	}
	stats.Complex.TopTeams = []draftstats.TeamShare{{Team: "JAX", Count: 20, Percentage: 14.3}}
	return usecase.DraftTrendsReport{
		Stats:     stats,
		Insights:  draftstats.Analyze(stats, t),
		Requested: season.Range{Min: 2015, Max: 2020},
		FellBack:  true,
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("anything", 0))
	assert.Equal(t, "ab", Truncate("abcdef", 2))

	long := strings.Repeat("🏈", 2000)
	got := Truncate(long, 1024)
	assert.Equal(t, 1024, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, ellipsis))
	assert.Equal(t, got, Truncate(got, 1024), "truncation is idempotent")
}

func TestRendererFull(t *testing.T) {
	t.Parallel()

	th := draftstats.DefaultThresholds()
	msg, err := NewRenderer(th).Full(sharkReport(th))
	require.NoError(t, err)
	require.Len(t, msg.Embeds, 2)

	primary := msg.Embeds[0]
	assert.Equal(t, "📊 Draft Trends Analysis (2010-2024)", primary.Title)
	assert.Equal(t, primaryColor, primary.Color)
	assert.Equal(t, footerText, primary.Footer.Text)
	assert.Contains(t, primary.Description, "Analysis for **Todd** (140 total picks: 60 snake, 80 auction)")
	assert.Contains(t, primary.Description, "2015-2020")
	assert.Contains(t, primary.Description, "Performance metrics only available for 2015+")

	identity := fieldByName(primary, "🧬 Draft Identity")
	require.NotNil(t, identity)
	assert.Contains(t, identity.Value, "SHARK")
	assert.Contains(t, fieldByName(primary, "🏈 Team Affinity").Value, "👑 **JAX**")

	secondary := msg.Embeds[1]
	assert.Equal(t, secondaryColor, secondary.Color)
	require.NotNil(t, fieldByName(secondary, "🎯 Strategic Recommendations"))
}

func TestRendererTruncatesLongSections(t *testing.T) {
	t.Parallel()

	th := draftstats.DefaultThresholds()
	report := sharkReport(th)
	for i := range 200 {
		report.Stats.Complex.TopTeams = append(report.Stats.Complex.TopTeams,
			draftstats.TeamShare{Team: fmt.Sprintf("TEAM-%03d-%s", i, strings.Repeat("X", 20)), Count: 1, Percentage: 0.5})
	}

	msg, err := NewRenderer(th).Full(report)
	require.NoError(t, err)
	teams := fieldByName(msg.Embeds[0], "🏈 Team Affinity")
	require.NotNil(t, teams)
	assert.Equal(t, th.MaxFieldLength, utf8.RuneCountInString(teams.Value))
	assert.True(t, strings.HasSuffix(teams.Value, ellipsis))
}

func TestRendererCompactAndPlainText(t *testing.T) {
	t.Parallel()

	th := draftstats.DefaultThresholds()
	r := NewRenderer(th)
	report := sharkReport(th)

	compact, err := r.Compact(report)
	require.NoError(t, err)
	require.Len(t, compact.Embeds, 1)
	assert.NotNil(t, fieldByName(compact.Embeds[0], "💰 Auction"))
	assert.Nil(t, fieldByName(compact.Embeds[0], "💘 Loyalty"))

	plain := r.PlainText(report)
	assert.Empty(t, plain.Embeds)
	assert.Contains(t, plain.Content, "Draft Trends for Todd (2010-2024)")
	assert.Contains(t, plain.Content, "Total picks: 140 (60 snake, 80 auction)")
	assert.Contains(t, plain.Content, "max bid $70")

	bare := usecase.DraftTrendsReport{Stats: draftstats.OwnerDraftStats{Owner: "Ghost", Range: season.Range{Min: 2016, Max: 2016}, TotalPicks: 3, SnakePicks: 3}}
	assert.Equal(t, "📊 Draft Trends for Ghost (2016)\nTotal picks: 3 (3 snake, 0 auction)", r.PlainText(bare).Content)
}

func TestValidateEmbeds(t *testing.T) {
	t.Parallel()

	tooMany := &discordgo.MessageEmbed{Title: "x"}
	for range maxEmbedFields + 1 {
		tooMany.Fields = append(tooMany.Fields, &discordgo.MessageEmbedField{Name: "n", Value: "v"})
	}
	assert.True(t, crerr.Is(validateEmbeds(tooMany), usecase.ErrRenderFailure))

	empty := &discordgo.MessageEmbed{Fields: []*discordgo.MessageEmbedField{{Name: "n", Value: " "}}}
	assert.Error(t, validateEmbeds(empty))

	huge := &discordgo.MessageEmbed{Description: strings.Repeat("d", 4000)}
	for range 3 {
		huge.Fields = append(huge.Fields, &discordgo.MessageEmbedField{Name: "n", Value: strings.Repeat("v", 1000)})
	}
	assert.Error(t, validateEmbeds(huge))
	assert.Error(t, validateEmbeds(nil))
}

func TestValidateEmbeds_LimitCoversWholeMessage(t *testing.T) {
	t.Parallel()

	half := func() *discordgo.MessageEmbed {
		return &discordgo.MessageEmbed{Description: strings.Repeat("d", 3500)}
	}
	require.NoError(t, validateEmbeds(half()))
	err := validateEmbeds(half(), half())
	assert.True(t, crerr.Is(err, usecase.ErrRenderFailure))
}

func TestRendererFull_RejectsOversizedPair(t *testing.T) {
	t.Parallel()

	th := draftstats.DefaultThresholds()
	th.MaxDescriptionLength = maxEmbedTotal
	r := NewRenderer(th)

	base, err := r.Full(sharkReport(th))
	require.NoError(t, err)
	primaryChars, err := embedChars(base.Embeds[0])
	require.NoError(t, err)

	// Grow the owner name until the primary document sits exactly at the
	// limit on its own.
	report := sharkReport(th)
	report.Stats.Owner = strings.Repeat("O", maxEmbedTotal-primaryChars+len("Todd"))
	require.NoError(t, validateEmbeds(r.primary(report)))

	_, err = r.Full(report)
	assert.True(t, crerr.Is(err, usecase.ErrRenderFailure))
}

func fieldByName(embed *discordgo.MessageEmbed, name string) *discordgo.MessageEmbedField {
	for _, f := range embed.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
