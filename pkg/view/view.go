// Package view maps inbound messages to response-producing handlers.
// Channels ask a Resolver for a handler per message; a nil handler means
// the message is dropped without a response.
package view

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/gfabricio/bottery/pkg/message"
)

// Handler produces the response text for an inbound message.
type Handler func(ctx context.Context, msg *message.Inbound) (string, error)

// Resolver selects a handler for an inbound message, or nil when no
// handler applies.
type Resolver interface {
	Resolve(msg *message.Inbound) Handler
}

// matcher reports whether a rule applies to the given message text.
type matcher func(text string) bool

type rule struct {
	match   matcher
	handler Handler
}

// Registry is an ordered rule set implementing Resolver. Rules are checked
// in registration order; the first match wins. An optional default handler
// catches everything else.
type Registry struct {
	mu       sync.RWMutex
	rules    []rule
	fallback Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// HandleText registers a handler for messages whose text equals text
// (case-insensitive).
func (r *Registry) HandleText(text string, h Handler) {
	r.add(func(s string) bool { return strings.EqualFold(s, text) }, h)
}

// HandlePattern registers a handler for messages whose text matches the
// given regular expression.
func (r *Registry) HandlePattern(expr string, h Handler) error {
	re, err := regexp.Compile(expr)
	if err != nil {
		return err
	}
	r.add(re.MatchString, h)
	return nil
}

// HandleDefault registers the fallback handler used when no rule matches.
func (r *Registry) HandleDefault(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

func (r *Registry) add(m matcher, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{match: m, handler: h})
}

// Resolve implements Resolver.
func (r *Registry) Resolve(msg *message.Inbound) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rule := range r.rules {
		if rule.match(msg.Text) {
			return rule.handler
		}
	}
	return r.fallback
}

// StaticReply returns a handler that always answers with text.
func StaticReply(text string) Handler {
	return func(context.Context, *message.Inbound) (string, error) {
		return text, nil
	}
}
