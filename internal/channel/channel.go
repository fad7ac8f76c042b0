// Package channel defines the bridge between messaging platforms and the
// view layer. Every concrete channel (Telegram, ...) ingests platform
// updates, translates them to the canonical message shape, asks the view
// resolver for a handler, and delivers the handler's response back to the
// platform.
package channel

import (
	"context"

	"github.com/gfabricio/bottery/internal/core"
	"github.com/gfabricio/bottery/pkg/message"
	"github.com/gfabricio/bottery/pkg/view"
)

// Channel is the bridge between a messaging platform and the view layer.
//
// A channel owns its ingestion mechanics (polling loop or webhook handler)
// and runs the translate → resolve → respond → deliver pipeline for each
// inbound update. It also accepts outbound messages from the dispatcher
// via Send().
type Channel interface {
	core.Module

	// Send delivers an outbound message to the platform.
	Send(ctx context.Context, msg message.Outbound) error

	// SetResolver gives the channel the view resolver used to answer
	// inbound messages. Called during wiring, before Start().
	SetResolver(r view.Resolver)
}

// Archive records canonical inbound messages for traceability. Channels
// discover an Archive through the service registry; recording failures are
// logged and never block message handling.
type Archive interface {
	Record(ctx context.Context, msg *message.Inbound) error
}
