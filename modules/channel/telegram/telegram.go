package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gfabricio/bottery/internal/channel"
	"github.com/gfabricio/bottery/internal/core"
	"github.com/gfabricio/bottery/internal/gateway"
	"github.com/gfabricio/bottery/pkg/message"
	"github.com/gfabricio/bottery/pkg/view"
	"gopkg.in/yaml.v3"
)

const (
	// channelID is the module ID and the canonical platform name.
	channelID = "channel.telegram"

	// sourceName is the webhook source and metrics label.
	sourceName = "telegram"

	// defaultParseMode is applied to every outbound message that does not
	// set its own parse mode.
	defaultParseMode = "Markdown"
)

func init() {
	core.RegisterModule(&Telegram{})
}

// Compile-time interface guards.
var (
	_ channel.Channel   = (*Telegram)(nil)
	_ core.Configurable = (*Telegram)(nil)
	_ core.Provisioner  = (*Telegram)(nil)
	_ core.Validator    = (*Telegram)(nil)
	_ core.Starter      = (*Telegram)(nil)
	_ core.Stopper      = (*Telegram)(nil)
)

// Telegram implements the Telegram Bot API channel for bottery.
type Telegram struct {
	config   Config
	client   *Client
	logger   *slog.Logger
	appCtx   *core.AppContext
	resolver view.Resolver

	// Resolved lazily at Start() via service registry.
	metrics metricsRecorder
	archive channel.Archive

	// Set during Start() depending on mode.
	poller          *Poller
	webhookReceiver *WebhookReceiver
}

// ModuleInfo implements core.Module.
func (t *Telegram) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  channelID,
		New: func() core.Module { return &Telegram{} },
	}
}

// Configure implements core.Configurable.
func (t *Telegram) Configure(node *yaml.Node) error {
	if err := node.Decode(&t.config); err != nil {
		return fmt.Errorf("telegram: decode config: %w", err)
	}
	t.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (t *Telegram) Provision(ctx *core.AppContext) error {
	t.appCtx = ctx
	t.logger = ctx.Logger
	t.client = NewClient(t.config.Token, t.config.APIURL)
	return nil
}

// Validate implements core.Validator. The ingestion mode is fixed here:
// once validation passes, the channel runs in the configured mode until
// the process exits.
func (t *Telegram) Validate() error {
	if t.config.Token == "" {
		return errors.New("telegram: token is required")
	}
	switch t.config.Mode {
	case "polling", "webhook":
	default:
		return fmt.Errorf("telegram: invalid mode %q (must be \"polling\" or \"webhook\")", t.config.Mode)
	}
	if t.config.Mode == "webhook" && t.config.WebhookURL == "" {
		return errors.New("telegram: webhook_url is required when mode is \"webhook\"")
	}
	return t.config.validate()
}

// SetResolver implements channel.Channel. Called during wiring, before
// Start().
func (t *Telegram) SetResolver(r view.Resolver) {
	t.resolver = r
}

// Start implements core.Starter. It starts either polling or webhook mode.
func (t *Telegram) Start() error {
	if svc, ok := t.appCtx.Service("gateway.metrics"); ok {
		if m, ok := svc.(metricsRecorder); ok {
			t.metrics = m
		}
	}
	if svc, ok := t.appCtx.Service("store.archive"); ok {
		if a, ok := svc.(channel.Archive); ok {
			t.archive = a
		}
	}
	if t.resolver == nil {
		t.logger.Warn("telegram starting without a resolver, inbound messages will be dropped")
	}

	switch t.config.Mode {
	case "polling":
		// A leftover webhook registration blocks getUpdates, so clear it
		// before the first poll.
		if err := t.client.DeleteWebhook(context.Background()); err != nil {
			return fmt.Errorf("telegram: deleteWebhook failed: %w", err)
		}
		t.poller = NewPoller(t.client, t.processUpdate, t.logger, t.config.PollingTimeout)
		t.poller.Start()
		t.logger.Info("telegram polling mode set",
			"timeout", t.config.PollingTimeout,
		)

	case "webhook":
		if t.config.WebhookSecret == "" {
			t.logger.Warn("telegram webhook running without secret_token, " +
				"consider setting webhook_secret for production deployments")
		}
		t.webhookReceiver = NewWebhookReceiver(t, t.config.WebhookSecret)

		if err := t.registerWebhook(); err != nil {
			return err
		}

		if err := t.client.SetWebhook(context.Background(), SetWebhookRequest{
			URL:         t.config.WebhookURL,
			SecretToken: t.config.WebhookSecret,
		}); err != nil {
			return fmt.Errorf("telegram: setWebhook failed: %w", err)
		}
		t.logger.Info("telegram webhook mode set",
			"url", t.config.WebhookURL,
		)
	}

	return nil
}

// registerWebhook resolves the gateway webhook dispatcher from the service
// registry and registers the WebhookReceiver as a handler.
func (t *Telegram) registerWebhook() error {
	svc, ok := t.appCtx.Service("gateway.webhook_dispatcher")
	if !ok {
		return errors.New("telegram: gateway.webhook_dispatcher service not found (is the gateway module loaded?)")
	}

	dispatcher, ok := svc.(*gateway.WebhookDispatcher)
	if !ok {
		return errors.New("telegram: gateway.webhook_dispatcher is not a *gateway.WebhookDispatcher")
	}

	// Empty HMAC secret: Telegram sends X-Telegram-Bot-Api-Secret-Token
	// instead, validated inside WebhookReceiver.HandleWebhook.
	dispatcher.Register(sourceName, t.webhookReceiver, "")
	return nil
}

// Stop implements core.Stopper.
func (t *Telegram) Stop(ctx context.Context) error {
	t.logger.Info("telegram channel stopping")

	switch t.config.Mode {
	case "polling":
		if t.poller != nil {
			t.poller.Stop()
		}
	case "webhook":
		if err := t.client.DeleteWebhook(ctx); err != nil {
			t.logger.Warn("telegram: failed to delete webhook on shutdown", "error", err)
		}
	}

	return nil
}

// Send implements channel.Channel. It delivers a dispatcher-originated
// outbound message, for example a scheduled announcement.
func (t *Telegram) Send(ctx context.Context, msg message.Outbound) error {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat ID %q: %w", msg.ChatID, err)
	}

	parseMode := msg.ParseMode
	if parseMode == "" {
		parseMode = defaultParseMode
	}

	_, err = t.client.SendMessage(ctx, SendMessageRequest{
		ChatID:    chatID,
		Text:      msg.Text,
		ParseMode: parseMode,
	})
	if err != nil {
		return err
	}
	if t.metrics != nil {
		t.metrics.IncSent(sourceName)
	}
	return nil
}
