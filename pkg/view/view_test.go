package view

import (
	"context"
	"testing"

	"github.com/gfabricio/bottery/pkg/message"
)

func msg(text string) *message.Inbound {
	return &message.Inbound{Text: text, Sender: message.Sender{ID: 1, FirstName: "A"}}
}

func TestRegistryExactMatch(t *testing.T) {
	r := NewRegistry()
	r.HandleText("ping", StaticReply("pong"))

	h := r.Resolve(msg("ping"))
	if h == nil {
		t.Fatal("Resolve() = nil, want handler")
	}
	got, err := h(context.Background(), msg("ping"))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "pong" {
		t.Errorf("handler = %q, want %q", got, "pong")
	}

	// Exact matching is case-insensitive.
	if r.Resolve(msg("PING")) == nil {
		t.Error("Resolve(PING) = nil, want handler")
	}
}

func TestRegistryNoMatch(t *testing.T) {
	r := NewRegistry()
	r.HandleText("ping", StaticReply("pong"))

	if h := r.Resolve(msg("hello")); h != nil {
		t.Error("Resolve() != nil, want nil for unmatched text")
	}
}

func TestRegistryPattern(t *testing.T) {
	r := NewRegistry()
	if err := r.HandlePattern(`^/start\b`, StaticReply("welcome")); err != nil {
		t.Fatalf("HandlePattern: %v", err)
	}

	if r.Resolve(msg("/start now")) == nil {
		t.Error("Resolve(/start now) = nil, want handler")
	}
	if r.Resolve(msg("restart")) != nil {
		t.Error("Resolve(restart) != nil, want nil")
	}
}

func TestRegistryInvalidPattern(t *testing.T) {
	r := NewRegistry()
	if err := r.HandlePattern(`(`, StaticReply("x")); err == nil {
		t.Error("HandlePattern(() = nil error, want error")
	}
}

func TestRegistryFirstMatchWins(t *testing.T) {
	r := NewRegistry()
	r.HandleText("hi", StaticReply("first"))
	r.HandleText("hi", StaticReply("second"))

	got, _ := r.Resolve(msg("hi"))(context.Background(), msg("hi"))
	if got != "first" {
		t.Errorf("handler = %q, want %q", got, "first")
	}
}

func TestRegistryDefault(t *testing.T) {
	r := NewRegistry()
	r.HandleText("ping", StaticReply("pong"))
	r.HandleDefault(StaticReply("fallback"))

	got, _ := r.Resolve(msg("anything"))(context.Background(), msg("anything"))
	if got != "fallback" {
		t.Errorf("handler = %q, want %q", got, "fallback")
	}
}
