package discordbot

import (
	"context"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Request is the part of an application command interaction handlers need.
type Request struct {
	Name    string
	UserID  string
	GuildID string
	Options map[string]any
}

func (r Request) String(name string) string {
	value, _ := r.Options[name].(string)
	return strings.TrimSpace(value)
}

// Int returns nil when the option was not supplied.
func (r Request) Int(name string) *int {
	switch value := r.Options[name].(type) {
	case int:
		return &value
	case int64:
		v := int(value)
		return &v
	case float64:
		v := int(value)
		return &v
	default:
		return nil
	}
}

func (r Request) Bool(name string) bool {
	value, _ := r.Options[name].(bool)
	return value
}

type HandlerFunc func(ctx context.Context, req Request, resp Responder) error

type Command struct {
	Definition *discordgo.ApplicationCommand
	// Defer acknowledges the interaction before the handler runs.
	Defer  bool
	Handle HandlerFunc
}

type Registry struct {
	mu       sync.RWMutex
	order    []string
	commands map[string]Command
}

func NewRegistry(commands ...Command) *Registry {
	r := &Registry{commands: make(map[string]Command, len(commands))}
	for _, cmd := range commands {
		r.Register(cmd)
	}
	return r
}

// Register replaces any command with the same name.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Definition.Name
	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	r.commands[name] = cmd
}

func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Definitions lists command definitions in registration order.
func (r *Registry) Definitions() []*discordgo.ApplicationCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*discordgo.ApplicationCommand, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name].Definition)
	}
	return out
}

func requestFromInteraction(i *discordgo.InteractionCreate) Request {
	data := i.ApplicationCommandData()
	req := Request{
		Name:    data.Name,
		GuildID: i.GuildID,
		Options: make(map[string]any, len(data.Options)),
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		req.UserID = i.Member.User.ID
	case i.User != nil:
		req.UserID = i.User.ID
	}
	for _, opt := range data.Options {
		if opt == nil {
			continue
		}
		req.Options[opt.Name] = opt.Value
	}
	return req
}
