package discordbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T, commands ...Command) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(NewRegistry(commands...), 2, time.Second, logging.NewNop())
	require.NoError(t, err)
	return d
}

func testCommand(name string, deferReply bool, handle HandlerFunc) Command {
	return Command{
		Definition: &discordgo.ApplicationCommand{Name: name, Description: name},
		Defer:      deferReply,
		Handle:     handle,
	}
}

func TestDispatcher_AcknowledgesBeforeHandling(t *testing.T) {
	t.Parallel()

	resp := &stubResponder{}
	d := newTestDispatcher(t, testCommand("slow", true, func(ctx context.Context, _ Request, r Responder) error {
		return r.Send(ctx, Message{Content: "done"})
	}))

	d.Dispatch(context.Background(), Request{Name: "slow"}, resp)
	require.NoError(t, d.Close(time.Second))

	assert.Equal(t, []string{"defer", "send"}, resp.log())
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	t.Parallel()

	resp := &stubResponder{}
	d := newTestDispatcher(t)
	d.Dispatch(context.Background(), Request{Name: "ghost"}, resp)
	require.NoError(t, d.Close(time.Second))

	sent := resp.messages()
	require.Len(t, sent, 1)
	assert.True(t, sent[0].Ephemeral)
	assert.Equal(t, "No command matching ghost was found.", sent[0].Content)
}

func TestDispatcher_HandlerErrorAndPanicReplyOnce(t *testing.T) {
	t.Parallel()

	cases := map[string]HandlerFunc{
		"error": func(context.Context, Request, Responder) error { return errors.New("boom") },
		"panic": func(context.Context, Request, Responder) error { panic("nil map") },
	}
	for name, handle := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resp := &stubResponder{}
			d := newTestDispatcher(t, testCommand(name, true, handle))
			d.Dispatch(context.Background(), Request{Name: name}, resp)
			require.NoError(t, d.Close(time.Second))

			sent := resp.messages()
			require.Len(t, sent, 1)
			assert.Equal(t, genericFailureMessage, sent[0].Content)
		})
	}
}

func TestDispatcher_DeferFailureSkipsHandler(t *testing.T) {
	t.Parallel()

	called := false
	resp := &stubResponder{deferErr: errors.New("unknown interaction")}
	d := newTestDispatcher(t, testCommand("late", true, func(context.Context, Request, Responder) error {
		called = true
		return nil
	}))
	d.Dispatch(context.Background(), Request{Name: "late"}, resp)
	require.NoError(t, d.Close(time.Second))

	assert.False(t, called)
	assert.Empty(t, resp.messages())
}

func TestRegistry_DefinitionsKeepOrder(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, Request, Responder) error { return nil }
	r := NewRegistry(testCommand("b", false, noop), testCommand("a", false, noop))
	r.Register(testCommand("b", true, noop))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)
	cmd, ok := r.Lookup("b")
	require.True(t, ok)
	assert.True(t, cmd.Defer)
}

func TestRequestOptionAccessors(t *testing.T) {
	t.Parallel()

	req := Request{Options: map[string]any{"user": "  Todd ", "seasonmin": float64(2015), "hidden": true}}
	assert.Equal(t, "Todd", req.String("user"))
	require.NotNil(t, req.Int("seasonmin"))
	assert.Equal(t, 2015, *req.Int("seasonmin"))
	assert.Nil(t, req.Int("seasonmax"))
	assert.True(t, req.Bool("hidden"))
	assert.False(t, req.Bool("missing"))
}
