package discordbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/commishbot/internal/domain/draftstats"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/riskibarqy/commishbot/internal/usecase"
)

const DraftTrendsCommandName = "drafttrends"

// DraftTrendsLookup is satisfied by usecase.DraftTrendsService.
type DraftTrendsLookup interface {
	Lookup(ctx context.Context, query usecase.DraftTrendsQuery) (usecase.DraftTrendsReport, error)
}

type draftTrendsOptions struct {
	User      string `validate:"required,max=100"`
	SeasonMin *int   `validate:"omitempty,season"`
	SeasonMax *int   `validate:"omitempty,season"`
}

type draftTrendsHandler struct {
	lookup     DraftTrendsLookup
	renderer   *Renderer
	thresholds draftstats.Thresholds
	validator  *validator.Validate
	logger     *logging.Logger
}

func NewDraftTrendsCommand(lookup DraftTrendsLookup, thresholds draftstats.Thresholds, logger *logging.Logger) Command {
	if logger == nil {
		logger = logging.Default()
	}
	h := &draftTrendsHandler{
		lookup:     lookup,
		renderer:   NewRenderer(thresholds),
		thresholds: thresholds,
		validator:  newSeasonValidator(thresholds),
		logger:     logger,
	}
	return Command{
		Definition: draftTrendsDefinition(thresholds),
		Defer:      true,
		Handle:     h.handle,
	}
}

func newSeasonValidator(t draftstats.Thresholds) *validator.Validate {
	v := validator.New()
	bounds := t.Bounds()
	_ = v.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		return bounds.Contains(int(fl.Field().Int()))
	})
	return v
}

func (h *draftTrendsHandler) handle(ctx context.Context, req Request, resp Responder) error {
	opts := draftTrendsOptions{
		User:      req.String("user"),
		SeasonMin: req.Int("seasonmin"),
		SeasonMax: req.Int("seasonmax"),
	}
	if err := h.validator.StructCtx(ctx, opts); err != nil {
		h.logger.WarnContext(ctx, "invalid drafttrends options", "user", opts.User, "error", err)
		bounds := h.thresholds.Bounds()
		return resp.Send(ctx, Message{
			Content: fmt.Sprintf("⚠️ Give a manager name and seasons between %d and %d.", bounds.Min, bounds.Max),
		})
	}

	report, err := h.lookup.Lookup(ctx, usecase.DraftTrendsQuery{
		Owner:     opts.User,
		SeasonMin: opts.SeasonMin,
		SeasonMax: opts.SeasonMax,
	})
	if err != nil {
		h.logLookupFailure(ctx, opts, err)
		return resp.Send(ctx, Message{Content: lookupFailureMessage(err)})
	}

	return sendWithFallback(ctx, h.logger, resp, h.renderer.levels(report))
}

func (h *draftTrendsHandler) logLookupFailure(ctx context.Context, opts draftTrendsOptions, err error) {
	requested := h.thresholds.Bounds().Normalize(opts.SeasonMin, opts.SeasonMax)
	args := []any{"command", DraftTrendsCommandName, "owner", opts.User, "range", requested.String(), "error", err}
	if errors.Is(err, usecase.ErrNotFound) {
		h.logger.WarnContext(ctx, "drafttrends owner not found", args...)
		return
	}
	h.logger.ErrorContext(ctx, "drafttrends lookup failed", args...)
}

func lookupFailureMessage(err error) string {
	var notFound *usecase.NotFoundError
	switch {
	case errors.As(err, &notFound):
		msg := fmt.Sprintf("❌ No draft data found for **%s**.", notFound.Owner)
		if len(notFound.Suggestions) == 0 {
			return msg + "\nCheck the spelling of the manager name."
		}
		names := make([]string, 0, len(notFound.Suggestions))
		for _, name := range notFound.Suggestions {
			names = append(names, "**"+name+"**")
		}
		return msg + "\nDid you mean: " + strings.Join(names, ", ") + "?"
	case errors.Is(err, usecase.ErrStoreUnavailable):
		if hint := errors.FlattenHints(err); hint != "" {
			return "⚠️ " + hint
		}
		return "⚠️ The draft database is unreachable right now. Try again later."
	case errors.Is(err, usecase.ErrInvalidInput):
		return "⚠️ A manager name is required."
	default:
		return genericFailureMessage
	}
}

func draftTrendsDefinition(t draftstats.Thresholds) *discordgo.ApplicationCommand {
	minSeason := float64(t.SeasonMin)
	return &discordgo.ApplicationCommand{
		Name:        DraftTrendsCommandName,
		Description: "Analyze draft patterns and tendencies for league members",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "user",
				Description: "Manager name to analyze",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "seasonmin",
				Description: fmt.Sprintf("Minimum season year (default: %d)", t.SeasonMin),
				MinValue:    &minSeason,
				MaxValue:    float64(t.SeasonMax),
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "seasonmax",
				Description: fmt.Sprintf("Maximum season year (default: %d)", t.SeasonMax),
				MinValue:    &minSeason,
				MaxValue:    float64(t.SeasonMax),
			},
		},
	}
}
