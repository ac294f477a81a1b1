package discordbot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultPresence = "Jaguars Highlights"
	restTimeout     = 20 * time.Second
)

// NewSession builds a REST capable session whose HTTP calls are traced.
func NewSession(token string) (*discordgo.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Client = &http.Client{
		Timeout: restTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "discord " + r.Method
			}),
		),
	}
	session.Identify.Intents = discordgo.IntentsGuilds
	return session, nil
}

type BotConfig struct {
	Session    *discordgo.Session
	Dispatcher *Dispatcher
	Presence   string
	Logger     *logging.Logger
}

type Bot struct {
	session    *discordgo.Session
	dispatcher *Dispatcher
	presence   string
	logger     *logging.Logger
}

func NewBot(cfg BotConfig) *Bot {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	presence := strings.TrimSpace(cfg.Presence)
	if presence == "" {
		presence = defaultPresence
	}
	b := &Bot{
		session:    cfg.Session,
		dispatcher: cfg.Dispatcher,
		presence:   presence,
		logger:     logger,
	}
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)
	return b
}

// Run holds the gateway connection open until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	<-ctx.Done()

	if err := b.dispatcher.Close(10 * time.Second); err != nil {
		b.logger.Warn("in-flight commands did not finish", "error", err)
	}
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord gateway: %w", err)
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("discord gateway ready", "user", r.User.String(), "guilds", len(r.Guilds))
	if err := s.UpdateWatchStatus(0, b.presence); err != nil {
		b.logger.Warn("update presence", "error", err)
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.dispatcher.Dispatch(context.Background(), requestFromInteraction(i), newSessionResponder(s, i.Interaction))
}

// DeployCommands overwrites the application's commands in guildID, or
// globally when guildID is empty.
func DeployCommands(ctx context.Context, session *discordgo.Session, appID, guildID string, defs []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error) {
	created, err := session.ApplicationCommandBulkOverwrite(appID, strings.TrimSpace(guildID), defs, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("overwrite application commands: %w", err)
	}
	return created, nil
}
