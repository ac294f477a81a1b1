package discordbot

import (
	"context"
	"errors"
	"sync"

	"github.com/riskibarqy/commishbot/internal/usecase"
)

type stubResponder struct {
	mu        sync.Mutex
	events    []string
	sent      []Message
	failSends int
	deferErr  error
}

func (r *stubResponder) Defer(context.Context, bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "defer")
	return r.deferErr
}

func (r *stubResponder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSends > 0 {
		r.failSends--
		r.events = append(r.events, "send-failed")
		return errors.New("discord rejected message")
	}
	r.events = append(r.events, "send")
	r.sent = append(r.sent, msg)
	return nil
}

func (r *stubResponder) messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

func (r *stubResponder) log() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type stubLookup struct {
	report usecase.DraftTrendsReport
	err    error
	got    []usecase.DraftTrendsQuery
}

func (s *stubLookup) Lookup(_ context.Context, q usecase.DraftTrendsQuery) (usecase.DraftTrendsReport, error) {
	s.got = append(s.got, q)
	return s.report, s.err
}
