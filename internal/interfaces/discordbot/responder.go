package discordbot

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Message is one reply to an interaction.
type Message struct {
	Content   string
	Embeds    []*discordgo.MessageEmbed
	Ephemeral bool
}

func (m Message) flags() discordgo.MessageFlags {
	if m.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// Responder is the reply surface of a single interaction. Send answers the
// interaction directly until Defer was called, then posts a followup.
type Responder interface {
	Defer(ctx context.Context, ephemeral bool) error
	Send(ctx context.Context, msg Message) error
}

type sessionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction

	mu       sync.Mutex
	deferred bool
	answered bool
}

func newSessionResponder(session *discordgo.Session, interaction *discordgo.Interaction) *sessionResponder {
	return &sessionResponder{session: session, interaction: interaction}
}

func (r *sessionResponder) Defer(ctx context.Context, ephemeral bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	if err := r.session.InteractionRespond(r.interaction, resp, discordgo.WithContext(ctx)); err != nil {
		return err
	}
	r.deferred = true
	return nil
}

func (r *sessionResponder) Send(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deferred || r.answered {
		_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
			Content: msg.Content,
			Embeds:  msg.Embeds,
			Flags:   msg.flags(),
		}, discordgo.WithContext(ctx))
		return err
	}

	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg.Content,
			Embeds:  msg.Embeds,
			Flags:   msg.flags(),
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	r.answered = true
	return nil
}
