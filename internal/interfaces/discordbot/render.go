package discordbot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commishbot/internal/domain/draftstats"
	"github.com/riskibarqy/commishbot/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	primaryColor   = 0x0099ff
	secondaryColor = 0x9b59b6
	footerText     = "Data from WPFL API"
	ellipsis       = "..."

	maxEmbedTitle   = 256
	maxFieldName    = 256
	maxFieldValue   = 1024
	maxEmbedFields  = 25
	maxEmbedTotal   = 6000
	maxContentChars = 2000
	maxLoyaltyRows  = 5
	meterSegments   = 10
)

var rankEmoji = []string{"👑", "🥈", "🥉"}

// Truncate cuts value to at most limit characters, marking the cut with an
// ellipsis. Values already within limit are returned unchanged.
func Truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	if limit <= len(ellipsis) {
		return string(runes[:limit])
	}
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}

// Renderer turns a draft trends report into chat documents.
type Renderer struct {
	thresholds draftstats.Thresholds
}

func NewRenderer(thresholds draftstats.Thresholds) *Renderer {
	return &Renderer{thresholds: thresholds}
}

// Full is the two document card: stats and identity first, outlook second.
func (r *Renderer) Full(report usecase.DraftTrendsReport) (Message, error) {
	embeds := []*discordgo.MessageEmbed{r.primary(report), r.secondary(report)}
	if err := validateEmbeds(embeds...); err != nil {
		return Message{}, err
	}
	return Message{Embeds: embeds}, nil
}

// Compact keeps only the identity, metrics and draft summary.
func (r *Renderer) Compact(report usecase.DraftTrendsReport) (Message, error) {
	s := report.Stats
	b := r.newEmbed(rangeTitle(s), primaryColor, r.description(report))
	b.field("🧬 Draft Identity", identityLines(report.Insights.Metrics), false)
	b.field("⚡ Power Metrics", powerLines(report.Insights.Metrics), false)
	if s.AuctionPicks > 0 {
		b.field("💰 Auction", auctionLines(s), true)
	} else {
		b.field("🐍 Snake Draft", snakeLines(s), true)
	}
	if err := validateEmbeds(b.embed); err != nil {
		return Message{}, err
	}
	return Message{Embeds: []*discordgo.MessageEmbed{b.embed}}, nil
}

// PlainText only reads counts every stats row carries, so it cannot fail.
func (r *Renderer) PlainText(report usecase.DraftTrendsReport) Message {
	s := report.Stats
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "📊 Draft Trends for %s (%s)\n", s.Owner, s.Range.String())
	fmt.Fprintf(buf, "Total picks: %d (%d snake, %d auction)", s.TotalPicks, s.SnakePicks, s.AuctionPicks)
	if s.AuctionPicks > 0 {
		fmt.Fprintf(buf, "\nAuction: $%d spent", s.AuctionTotalSpent)
		if s.AuctionAvgValue != nil {
			fmt.Fprintf(buf, ", avg $%.1f", *s.AuctionAvgValue)
		}
		if s.AuctionMaxBid != nil {
			fmt.Fprintf(buf, ", max bid $%d", *s.AuctionMaxBid)
		}
	}
	return Message{Content: Truncate(buf.String(), maxContentChars)}
}

func (r *Renderer) primary(report usecase.DraftTrendsReport) *discordgo.MessageEmbed {
	s := report.Stats
	in := report.Insights

	b := r.newEmbed(rangeTitle(s), primaryColor, r.description(report))
	b.field("🧬 Draft Identity", identityLines(in.Metrics), false)
	b.field("⚡ Power Metrics", powerLines(in.Metrics), false)
	b.field("🐍 Snake Draft", snakeLines(s), true)
	b.field("💰 Auction", auctionLines(s), true)
	b.bullets("✨ Signature Moves", in.SignatureMoves)
	b.bullets("🏆 Elite Traits", in.EliteTraits)
	b.field("🏈 Team Affinity", teamLines(s), true)
	b.field("🏗️ Position Architecture", in.PositionArchitecture, false)
	b.field("💘 Loyalty", loyaltyLines(s), false)
	return b.embed
}

func (r *Renderer) secondary(report usecase.DraftTrendsReport) *discordgo.MessageEmbed {
	in := report.Insights
	archetype := in.Metrics.Archetype

	b := r.newEmbed(
		fmt.Sprintf("🔮 Draft Outlook: %s", report.Stats.Owner),
		secondaryColor,
		fmt.Sprintf("%s *%s*", archetype.Emoji(), archetype.Tagline()),
	)
	b.bullets("🔮 Bold Predictions", in.Predictions)
	b.bullets("😴 Sleeper Alerts", in.Sleepers)
	b.bullets("🎯 Strategic Recommendations", in.Recommendations)
	return b.embed
}

func (r *Renderer) description(report usecase.DraftTrendsReport) string {
	s := report.Stats
	split := make([]string, 0, 2)
	if s.SnakePicks > 0 {
		split = append(split, fmt.Sprintf("%d snake", s.SnakePicks))
	}
	if s.AuctionPicks > 0 {
		split = append(split, fmt.Sprintf("%d auction", s.AuctionPicks))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analysis for **%s** (%d total picks", s.Owner, s.TotalPicks)
	if len(split) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(split, ", "))
	}
	sb.WriteString(")")
	if report.FellBack {
		fmt.Fprintf(&sb, "\nℹ️ No snapshot for %s yet, showing %s instead.", report.Requested.String(), s.Range.String())
	}
	if s.Range.Min < r.thresholds.ScoresStartYear {
		fmt.Fprintf(&sb, "\n⚠️ *Performance metrics only available for %d+*", r.thresholds.ScoresStartYear)
	}
	return sb.String()
}

type embedBuilder struct {
	embed      *discordgo.MessageEmbed
	fieldLimit int
}

func (r *Renderer) newEmbed(title string, color int, description string) *embedBuilder {
	return &embedBuilder{
		embed: &discordgo.MessageEmbed{
			Title:       Truncate(title, maxEmbedTitle),
			Description: Truncate(description, r.thresholds.MaxDescriptionLength),
			Color:       color,
			Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		},
		fieldLimit: r.thresholds.MaxFieldLength,
	}
}

// field skips sections with nothing to show.
func (b *embedBuilder) field(name string, lines []string, inline bool) {
	if len(lines) == 0 {
		return
	}
	b.embed.Fields = append(b.embed.Fields, &discordgo.MessageEmbedField{
		Name:   Truncate(name, maxFieldName),
		Value:  Truncate(joinLines(lines, ""), b.fieldLimit),
		Inline: inline,
	})
}

func (b *embedBuilder) bullets(name string, items []string) {
	if len(items) == 0 {
		return
	}
	b.embed.Fields = append(b.embed.Fields, &discordgo.MessageEmbedField{
		Name:  Truncate(name, maxFieldName),
		Value: Truncate(joinLines(items, "• "), b.fieldLimit),
	})
}

func joinLines(lines []string, prefix string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	for i, line := range lines {
		if i > 0 {
			_ = buf.WriteByte('\n')
		}
		_, _ = buf.WriteString(prefix)
		_, _ = buf.WriteString(line)
	}
	return buf.String()
}

// validateEmbeds enforces the platform limits that make a send fail
// outright. The character limit covers every embed of one message together.
func validateEmbeds(embeds ...*discordgo.MessageEmbed) error {
	total := 0
	for _, embed := range embeds {
		n, err := embedChars(embed)
		if err != nil {
			return err
		}
		total += n
	}
	if total > maxEmbedTotal {
		return errors.Mark(errors.Newf("message embeds are %d characters", total), usecase.ErrRenderFailure)
	}
	return nil
}

func embedChars(embed *discordgo.MessageEmbed) (int, error) {
	if embed == nil {
		return 0, errors.Mark(errors.New("embed is nil"), usecase.ErrRenderFailure)
	}
	if len(embed.Fields) > maxEmbedFields {
		return 0, errors.Mark(errors.Newf("embed has %d fields", len(embed.Fields)), usecase.ErrRenderFailure)
	}

	total := utf8.RuneCountInString(embed.Title) + utf8.RuneCountInString(embed.Description)
	if embed.Footer != nil {
		total += utf8.RuneCountInString(embed.Footer.Text)
	}
	for _, field := range embed.Fields {
		if strings.TrimSpace(field.Name) == "" || strings.TrimSpace(field.Value) == "" {
			return 0, errors.Mark(errors.Newf("embed field %q is empty", field.Name), usecase.ErrRenderFailure)
		}
		total += utf8.RuneCountInString(field.Name) + utf8.RuneCountInString(field.Value)
	}
	return total, nil
}

func rangeTitle(s draftstats.OwnerDraftStats) string {
	return fmt.Sprintf("📊 Draft Trends Analysis (%s)", s.Range.String())
}

func identityLines(m draftstats.Metrics) []string {
	return []string{
		fmt.Sprintf("**%s %s**", m.Archetype.Emoji(), strings.ToUpper(string(m.Archetype))),
		"*" + m.Archetype.Tagline() + "*",
	}
}

func powerLines(m draftstats.Metrics) []string {
	return []string{
		fmt.Sprintf("Draft IQ: **%.0f**/100 %s", m.DraftIQ, meter(m.DraftIQ)),
		fmt.Sprintf("Risk Tolerance: **%.0f** %s", m.RiskTolerance, meter(m.RiskTolerance)),
		fmt.Sprintf("Consistency: **%.0f** %s", m.Consistency, meter(m.Consistency)),
		fmt.Sprintf("Value Hunting: **%.0f** %s", m.ValueHunting, meter(m.ValueHunting)),
	}
}

func meter(score float64) string {
	filled := int(math.Round(score / (100 / meterSegments)))
	filled = min(max(filled, 0), meterSegments)
	return "`" + strings.Repeat("▰", filled) + strings.Repeat("▱", meterSegments-filled) + "`"
}

func snakeLines(s draftstats.OwnerDraftStats) []string {
	if s.SnakePicks == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("Picks: **%d**", s.SnakePicks)}
	if s.AvgDraftPosition != nil {
		lines = append(lines, fmt.Sprintf("Avg Pick: **%.1f**", *s.AvgDraftPosition))
	}
	if s.EarliestPick != nil && s.LatestPick != nil {
		lines = append(lines, fmt.Sprintf("Range: **#%d** to **#%d**", *s.EarliestPick, *s.LatestPick))
	}
	return lines
}

func auctionLines(s draftstats.OwnerDraftStats) []string {
	if s.AuctionPicks == 0 {
		return nil
	}
	lines := []string{
		fmt.Sprintf("Picks: **%d**", s.AuctionPicks),
		fmt.Sprintf("Total Spent: **$%d**", s.AuctionTotalSpent),
	}
	if s.AuctionAvgValue != nil {
		lines = append(lines, fmt.Sprintf("Avg Value: **$%.1f**", *s.AuctionAvgValue))
	}
	if s.AuctionMaxBid != nil && s.AuctionMinBid != nil {
		lines = append(lines, fmt.Sprintf("Bids: **$%d** max / **$%d** min", *s.AuctionMaxBid, *s.AuctionMinBid))
	}
	if s.AuctionROI != nil {
		lines = append(lines, fmt.Sprintf("ROI: **%.2f** pts/$", *s.AuctionROI))
	}
	if s.AuctionHitRate != nil {
		lines = append(lines, fmt.Sprintf("Hit Rate: **%.1f%%**", *s.AuctionHitRate))
	}
	if s.AuctionBustRate != nil {
		lines = append(lines, fmt.Sprintf("Bust Rate: **%.1f%%**", *s.AuctionBustRate))
	}
	streaks := s.Complex.Streaks
	if streaks.BestDraftYear != nil {
		lines = append(lines, fmt.Sprintf("Best Year: **%d**", *streaks.BestDraftYear))
	}
	if streaks.WorstDraftYear != nil {
		lines = append(lines, fmt.Sprintf("Worst Year: **%d**", *streaks.WorstDraftYear))
	}
	return lines
}

func teamLines(s draftstats.OwnerDraftStats) []string {
	lines := make([]string, 0, len(s.Complex.TopTeams)+1)
	for i, team := range s.Complex.TopTeams {
		prefix := ""
		if i < len(rankEmoji) {
			prefix = rankEmoji[i] + " "
		}
		lines = append(lines, fmt.Sprintf("%s**%s** (%d picks, %.1f%%)", prefix, team.Team, team.Count, team.Percentage))
	}
	if fav := s.Complex.FavoritePosition; fav != nil {
		lines = append(lines, fmt.Sprintf("📍 Favorite: **%s** (%d picks, %.1f%%)", fav.Position, fav.Count, fav.Percentage))
	}
	return lines
}

func loyaltyLines(s draftstats.OwnerDraftStats) []string {
	repeats := s.Complex.RepeatPlayers
	if len(repeats) > maxLoyaltyRows {
		repeats = repeats[:maxLoyaltyRows]
	}
	lines := make([]string, 0, len(repeats))
	for _, rp := range repeats {
		seasons := make([]string, 0, len(rp.Seasons))
		for _, year := range rp.Seasons {
			seasons = append(seasons, strconv.Itoa(year))
		}
		lines = append(lines, fmt.Sprintf("**%s** ×%d (%s)", rp.Player, rp.Count, strings.Join(seasons, ", ")))
	}
	return lines
}
