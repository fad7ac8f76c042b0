package telegram

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
)

// WebhookReceiver processes incoming Telegram webhook payloads. It
// implements gateway.WebhookHandler; the gateway always acknowledges the
// request with an empty 200, so the platform never redelivers an update
// whose handling failed downstream.
type WebhookReceiver struct {
	telegram *Telegram
	secret   string
}

// NewWebhookReceiver creates a new WebhookReceiver.
func NewWebhookReceiver(t *Telegram, secret string) *WebhookReceiver {
	return &WebhookReceiver{
		telegram: t,
		secret:   secret,
	}
}

// HandleWebhook parses an update and runs the channel pipeline on it.
// Telegram authenticates webhooks with the X-Telegram-Bot-Api-Secret-Token
// header rather than an HMAC signature, so the check lives here.
func (w *WebhookReceiver) HandleWebhook(ctx context.Context, body []byte, headers http.Header) error {
	if w.secret != "" {
		token := headers.Get("X-Telegram-Bot-Api-Secret-Token")
		if subtle.ConstantTimeCompare([]byte(w.secret), []byte(token)) != 1 {
			return errors.New("telegram: invalid webhook secret token")
		}
	}

	var update Update
	if err := json.Unmarshal(body, &update); err != nil {
		return errors.New("telegram: invalid update JSON: " + err.Error())
	}

	w.telegram.processUpdate(ctx, &update)
	return nil
}
