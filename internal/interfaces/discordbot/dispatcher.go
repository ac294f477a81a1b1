package discordbot

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	genericFailureMessage = "There was an error while executing this command!"
	defaultCommandTimeout = 30 * time.Second
)

var tracer = otel.Tracer("commishbot/internal/interfaces/discordbot")

// Dispatcher routes interactions to registered commands. Handlers run on a
// bounded worker pool after the interaction was acknowledged.
type Dispatcher struct {
	registry *Registry
	pool     *ants.Pool
	timeout  time.Duration
	logger   *logging.Logger
}

func NewDispatcher(registry *Registry, workers int, timeout time.Duration, logger *logging.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	pool, err := ants.NewPool(max(workers, 1))
	if err != nil {
		return nil, fmt.Errorf("create command worker pool: %w", err)
	}
	return &Dispatcher{
		registry: registry,
		pool:     pool,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Dispatch never returns an error: every failure ends in a reply or a log line.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, resp Responder) {
	cmd, ok := d.registry.Lookup(req.Name)
	if !ok {
		d.logger.ErrorContext(ctx, "no command matching interaction", "command", req.Name)
		d.reply(ctx, req, resp, Message{Content: fmt.Sprintf("No command matching %s was found.", req.Name), Ephemeral: true})
		return
	}

	if cmd.Defer {
		if err := resp.Defer(ctx, false); err != nil {
			d.logger.ErrorContext(ctx, "acknowledge interaction", "command", req.Name, "error", err)
			return
		}
	}

	runCtx := context.WithoutCancel(ctx)
	if err := d.pool.Submit(func() { d.run(runCtx, cmd, req, resp) }); err != nil {
		d.logger.ErrorContext(ctx, "submit command", "command", req.Name, "error", err)
		d.reply(ctx, req, resp, Message{Content: genericFailureMessage, Ephemeral: true})
	}
}

func (d *Dispatcher) run(ctx context.Context, cmd Command, req Request, resp Responder) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "discordbot.command."+req.Name)
	defer span.End()
	span.SetAttributes(attribute.String("discord.command", req.Name), attribute.String("discord.guild_id", req.GuildID))

	var err error
	var catcher panics.Catcher
	catcher.Try(func() { err = cmd.Handle(ctx, req, resp) })
	if recovered := catcher.Recovered(); recovered != nil {
		err = errors.Wrap(recovered.AsError(), "command panicked")
	}
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	d.logger.ErrorContext(ctx, "command failed", "command", req.Name, "user_id", req.UserID, "error", err)
	d.reply(ctx, req, resp, Message{Content: genericFailureMessage, Ephemeral: true})
}

func (d *Dispatcher) reply(ctx context.Context, req Request, resp Responder, msg Message) {
	if err := resp.Send(ctx, msg); err != nil {
		d.logger.ErrorContext(ctx, "send reply", "command", req.Name, "error", err)
	}
}

// Close waits up to timeout for in-flight commands.
func (d *Dispatcher) Close(timeout time.Duration) error {
	return d.pool.ReleaseTimeout(timeout)
}
