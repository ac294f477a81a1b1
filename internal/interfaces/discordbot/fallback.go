package discordbot

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/riskibarqy/commishbot/internal/usecase"
)

// renderLevel is one rung of the fallback ladder.
type renderLevel struct {
	name   string
	render func() (Message, error)
}

// sendWithFallback tries each level in order and stops at the first one that
// both renders and sends. At most one reply is sent.
func sendWithFallback(ctx context.Context, logger *logging.Logger, resp Responder, levels []renderLevel) error {
	var combined error
	for i, level := range levels {
		msg, err := level.render()
		if err == nil {
			err = resp.Send(ctx, msg)
		}
		if err == nil {
			if i > 0 {
				logger.InfoContext(ctx, "draft trends served by fallback level", "level", level.name)
			}
			return nil
		}
		logger.WarnContext(ctx, "draft trends render level failed", "level", level.name, "error", err)
		combined = errors.CombineErrors(combined, errors.Wrapf(err, "level %s", level.name))
	}
	if combined == nil {
		combined = errors.New("no render levels")
	}
	return errors.Mark(errors.Wrap(combined, "every render level failed"), usecase.ErrRenderFailure)
}

func (r *Renderer) levels(report usecase.DraftTrendsReport) []renderLevel {
	return []renderLevel{
		{name: "full", render: func() (Message, error) { return r.Full(report) }},
		{name: "compact", render: func() (Message, error) { return r.Compact(report) }},
		{name: "plain", render: func() (Message, error) { return r.PlainText(report), nil }},
	}
}
