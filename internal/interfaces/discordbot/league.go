package discordbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/commishbot/internal/domain/leaguestats"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/riskibarqy/commishbot/internal/usecase"
	"github.com/shopspring/decimal"
)

const (
	ExpectedWinsCommandName = "ewins"
	OptimalCommandName      = "optimal"

	maxWeek            = 18
	defaultOptimalWeek = 17
	zeroWidthName      = "\u200b"
)

// LeagueStatsSource is satisfied by wpfl.Client.
type LeagueStatsSource interface {
	FetchExpectedWins(ctx context.Context, year, week int) ([]leaguestats.ExpectedWins, error)
	FetchOptimalCoaching(ctx context.Context, year, week int) ([]leaguestats.Coaching, error)
}

// LeagueSeasons bounds the year option of the league summary commands. Max is
// normally the season in progress, one past the last drafted season.
type LeagueSeasons struct {
	Min int
	Max int
}

type weekOptions struct {
	Year int `validate:"leagueseason"`
	Week int `validate:"gte=1,lte=18"`
}

type leagueHandler struct {
	source    LeagueStatsSource
	seasons   LeagueSeasons
	validator *validator.Validate
	logger    *logging.Logger
}

func newLeagueHandler(source LeagueStatsSource, seasons LeagueSeasons, logger *logging.Logger) *leagueHandler {
	if logger == nil {
		logger = logging.Default()
	}
	v := validator.New()
	_ = v.RegisterValidation("leagueseason", func(fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		return year >= seasons.Min && year <= seasons.Max
	})
	return &leagueHandler{source: source, seasons: seasons, validator: v, logger: logger}
}

func (h *leagueHandler) options(ctx context.Context, req Request, defaultYear, defaultWeek int) (weekOptions, bool) {
	opts := weekOptions{Year: defaultYear, Week: defaultWeek}
	if year := req.Int("year"); year != nil {
		opts.Year = *year
	}
	if week := req.Int("week"); week != nil {
		opts.Week = *week
	}
	if err := h.validator.StructCtx(ctx, opts); err != nil {
		h.logger.WarnContext(ctx, "invalid league command options", "command", req.Name, "year", opts.Year, "week", opts.Week, "error", err)
		return opts, false
	}
	return opts, true
}

func (h *leagueHandler) invalidOptions() Message {
	return Message{Content: fmt.Sprintf("⚠️ Pick a season between %d and %d and a week between 1 and %d.", h.seasons.Min, h.seasons.Max, maxWeek)}
}

// NewExpectedWinsCommand ranks owners by expected wins through a week.
func NewExpectedWinsCommand(source LeagueStatsSource, seasons LeagueSeasons, logger *logging.Logger) Command {
	h := newLeagueHandler(source, seasons, logger)
	return Command{
		Definition: &discordgo.ApplicationCommand{
			Name:        ExpectedWinsCommandName,
			Description: "Returns expected wins vs actual wins by week and year",
			Options:     weekCommandOptions(seasons, true),
		},
		Defer:  true,
		Handle: h.expectedWins,
	}
}

func (h *leagueHandler) expectedWins(ctx context.Context, req Request, resp Responder) error {
	opts, ok := h.options(ctx, req, h.seasons.Max, maxWeek)
	if !ok {
		return resp.Send(ctx, h.invalidOptions())
	}

	rows, err := h.source.FetchExpectedWins(ctx, opts.Year, opts.Week)
	if err != nil {
		h.logger.ErrorContext(ctx, "expected wins fetch failed", "year", opts.Year, "week", opts.Week, "error", err)
		return resp.Send(ctx, Message{Content: statsFailureMessage(err)})
	}
	if len(rows) == 0 {
		return resp.Send(ctx, Message{Content: "No data available for the specified period."})
	}

	leaguestats.SortByExpectedWins(rows)
	return resp.Send(ctx, Message{Embeds: []*discordgo.MessageEmbed{expectedWinsEmbed(rows, opts)}})
}

func expectedWinsEmbed(rows []leaguestats.ExpectedWins, opts weekOptions) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Expected Wins vs Actual Wins %d (Week %d)", opts.Year, opts.Week),
		Description: fmt.Sprintf("Weeks covered: %d-%d", rows[0].WeekMin, rows[0].WeekMax),
		Color:       primaryColor,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	var (
		block    strings.Builder
		expected decimal.Decimal
		actual   int
	)
	flush := func() {
		if block.Len() == 0 || len(embed.Fields) == maxEmbedFields {
			return
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: zeroWidthName, Value: block.String()})
		block.Reset()
	}
	for i, row := range rows {
		expected = expected.Add(row.ExpectedWins)
		actual += row.ActualWins

		line := fmt.Sprintf("%d. %s: %s E[W] | %d A[W]\n", i+1, row.Owner, row.ExpectedWins.StringFixed(2), row.ActualWins)
		if block.Len()+len(line) > maxFieldValue {
			flush()
		}
		block.WriteString(Truncate(line, maxFieldValue))
	}
	flush()

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Total: %s E[W] | %d A[W]", expected.StringFixed(2), actual),
	}
	return embed
}

// NewOptimalCommand ranks owners by how close they came to their best
// possible lineup.
func NewOptimalCommand(source LeagueStatsSource, seasons LeagueSeasons, logger *logging.Logger) Command {
	h := newLeagueHandler(source, seasons, logger)
	return Command{
		Definition: &discordgo.ApplicationCommand{
			Name:        OptimalCommandName,
			Description: "Shows optimal coaching data",
			Options:     weekCommandOptions(seasons, false),
		},
		Defer:  true,
		Handle: h.optimal,
	}
}

func (h *leagueHandler) optimal(ctx context.Context, req Request, resp Responder) error {
	// Defaults to the last completed season.
	opts, ok := h.options(ctx, req, h.seasons.Max-1, defaultOptimalWeek)
	if !ok {
		return resp.Send(ctx, h.invalidOptions())
	}

	rows, err := h.source.FetchOptimalCoaching(ctx, opts.Year, opts.Week)
	if err != nil {
		h.logger.ErrorContext(ctx, "optimal coaching fetch failed", "year", opts.Year, "week", opts.Week, "error", err)
		return resp.Send(ctx, Message{Content: statsFailureMessage(err)})
	}
	if len(rows) == 0 {
		return resp.Send(ctx, Message{Content: "No data found for the specified criteria."})
	}

	leaguestats.SortByEfficiency(rows)
	return resp.Send(ctx, Message{Content: optimalText(rows, opts)})
}

func optimalText(rows []leaguestats.Coaching, opts weekOptions) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Optimal Coaching Data for Year %d, Week %d**", opts.Year, opts.Week)
	for i, row := range rows {
		fmt.Fprintf(&sb, "\n\n**%d. %s**\n```\nACT:%7s OPT:%7s\nEFF:%6s%% BENCH:%7s\n```",
			i+1, row.Owner,
			row.ActualPointsFor.StringFixed(2),
			row.OptimalPointsFor.StringFixed(2),
			row.Efficiency().StringFixed(2),
			row.Bench().StringFixed(2),
		)
	}
	return Truncate(sb.String(), maxContentChars)
}

func weekCommandOptions(seasons LeagueSeasons, required bool) []*discordgo.ApplicationCommandOption {
	minYear, minWeek := float64(seasons.Min), 1.0
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "year",
			Description: "Season year",
			Required:    required,
			MinValue:    &minYear,
			MaxValue:    float64(seasons.Max),
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "week",
			Description: "Week of season",
			Required:    required,
			MinValue:    &minWeek,
			MaxValue:    maxWeek,
		},
	}
}

func statsFailureMessage(err error) string {
	if errors.Is(err, usecase.ErrDependencyUnavailable) {
		return "⚠️ The league stats service is unavailable right now. Please try again later."
	}
	return "An error occurred while fetching the data. Please try again later."
}
