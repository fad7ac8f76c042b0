package telegram

import (
	"context"
)

// metricsRecorder is the subset of the gateway metrics needed here. Defined
// locally so the channel does not depend on the gateway's concrete type.
type metricsRecorder interface {
	IncReceived(channel string)
	IncSent(channel string)
	IncHandlerError(channel string)
}

// processUpdate runs the full pipeline for one update: translate, resolve,
// respond, deliver. Failures never propagate; each stage logs and counts
// its own errors so one bad update cannot take down ingestion.
func (t *Telegram) processUpdate(ctx context.Context, update *Update) {
	inbound, err := convertInbound(update, channelID)
	if err != nil {
		t.logger.Debug("skipping update", "update_id", update.UpdateID, "reason", err)
		return
	}

	if t.metrics != nil {
		t.metrics.IncReceived(sourceName)
	}

	if t.archive != nil {
		if err := t.archive.Record(ctx, inbound); err != nil {
			t.logger.Warn("failed to archive message",
				"message_id", inbound.ID,
				"error", err,
			)
		}
	}

	if t.resolver == nil {
		t.logger.Debug("no resolver set, dropping message", "message_id", inbound.ID)
		return
	}

	handler := t.resolver.Resolve(inbound)
	if handler == nil {
		t.logger.Debug("no view matched", "message_id", inbound.ID, "text", inbound.Text)
		return
	}

	reply, err := handler(ctx, inbound)
	if err != nil {
		t.logger.Error("view handler failed",
			"message_id", inbound.ID,
			"error", err,
		)
		if t.metrics != nil {
			t.metrics.IncHandlerError(sourceName)
		}
		return
	}
	if reply == "" {
		return
	}

	// Replies go back to the sender, not the originating chat.
	if err := t.deliver(ctx, inbound.Sender.ID, reply); err != nil {
		t.logger.Error("failed to deliver reply",
			"message_id", inbound.ID,
			"recipient", inbound.Sender.ID,
			"error", err,
		)
		if t.metrics != nil {
			t.metrics.IncHandlerError(sourceName)
		}
		return
	}

	if t.metrics != nil {
		t.metrics.IncSent(sourceName)
	}
}

// deliver sends a reply text to the given recipient.
func (t *Telegram) deliver(ctx context.Context, chatID int64, text string) error {
	_, err := t.client.SendMessage(ctx, SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: defaultParseMode,
	})
	return err
}
