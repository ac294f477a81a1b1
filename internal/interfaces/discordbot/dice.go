package discordbot

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
)

const maxDice = 100

func NewFlipCommand() Command {
	return newFlipCommand(rand.IntN)
}

func newFlipCommand(intn func(int) int) Command {
	return Command{
		Definition: &discordgo.ApplicationCommand{
			Name:        "flip",
			Description: "Flip a coin",
		},
		Handle: func(ctx context.Context, _ Request, resp Responder) error {
			side := "heads"
			if intn(2) == 1 {
				side = "tails"
			}
			return resp.Send(ctx, Message{Content: side})
		},
	}
}

type rollOptions struct {
	Sides  int `validate:"gte=1"`
	Dice   int `validate:"gte=1,lte=100"`
	Hidden bool
}

func NewRollCommand() Command {
	return newRollCommand(rand.IntN)
}

func newRollCommand(intn func(int) int) Command {
	v := validator.New()
	minSides, minDice := 1.0, 1.0
	return Command{
		Definition: &discordgo.ApplicationCommand{
			Name:        "roll",
			Description: "Roll a dice",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "sides", Description: "Number of sides on die", Required: true, MinValue: &minSides},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "dice", Description: "How many dice (default 1)", MinValue: &minDice, MaxValue: maxDice},
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "hidden", Description: "is roll hidden (default public)"},
			},
		},
		Handle: func(ctx context.Context, req Request, resp Responder) error {
			opts := rollOptions{Dice: 1, Hidden: req.Bool("hidden")}
			if sides := req.Int("sides"); sides != nil {
				opts.Sides = *sides
			}
			if dice := req.Int("dice"); dice != nil {
				opts.Dice = *dice
			}
			if err := v.StructCtx(ctx, opts); err != nil {
				content := "Dice must have at least one side."
				if opts.Sides >= 1 {
					content = "You can roll between 1 and 100 dice."
				}
				return resp.Send(ctx, Message{Content: content, Ephemeral: true})
			}
			return resp.Send(ctx, Message{Embeds: []*discordgo.MessageEmbed{rollEmbed(opts, intn)}, Ephemeral: opts.Hidden})
		},
	}
}

func rollEmbed(opts rollOptions, intn func(int) int) *discordgo.MessageEmbed {
	rolls := make([]string, 0, opts.Dice)
	total := 0
	for range opts.Dice {
		roll := intn(opts.Sides) + 1
		total += roll
		rolls = append(rolls, strconv.Itoa(roll))
	}
	return &discordgo.MessageEmbed{
		Title: "🎲 Dice Roll 🎲",
		Color: primaryColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Number of Dice", Value: strconv.Itoa(opts.Dice), Inline: true},
			{Name: "Sides per Die", Value: strconv.Itoa(opts.Sides), Inline: true},
			{Name: "Rolls", Value: Truncate(strings.Join(rolls, ", "), 1024), Inline: true},
			{Name: "Total", Value: strconv.Itoa(total), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
