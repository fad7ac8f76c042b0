package app

import (
	"fmt"
	"log/slog"

	"github.com/gfabricio/bottery/internal/channel"
	"github.com/gfabricio/bottery/internal/config"
	"github.com/gfabricio/bottery/internal/core"
	"github.com/gfabricio/bottery/pkg/view"
)

// wireChannels discovers channels among the loaded modules, builds the view
// registry from configuration, and connects the two. Must be called after
// LoadModules and before Start.
func wireChannels(
	app *core.App,
	appCtx *core.AppContext,
	cfg *config.Config,
	ids []string,
	logger *slog.Logger,
) error {
	resolver, err := buildResolver(cfg.Views)
	if err != nil {
		return err
	}

	dispatcher := channel.NewDispatcher()
	var count int

	for _, id := range ids {
		mod, ok := app.Module(id)
		if !ok {
			continue
		}
		ch, ok := mod.(channel.Channel)
		if !ok {
			continue
		}

		// Register under the full module ID (e.g. "channel.telegram")
		// because that is what outbound messages carry in msg.Channel.
		if err := dispatcher.Register(id, ch); err != nil {
			return fmt.Errorf("registering channel %s: %w", id, err)
		}
		ch.SetResolver(resolver)
		count++
		logger.Info("wired channel", "channel", id)
	}

	if count == 0 {
		logger.Info("no channels configured, skipping channel wiring")
		return nil
	}

	appCtx.RegisterService("channel.dispatcher", dispatcher)
	return nil
}

// buildResolver turns config view entries into an ordered registry.
// Rules apply in the order they appear; the first match wins.
func buildResolver(views []config.ViewEntry) (*view.Registry, error) {
	registry := view.NewRegistry()

	for i, v := range views {
		handler := view.StaticReply(v.Reply)
		switch {
		case v.Default:
			registry.HandleDefault(handler)
		case v.Pattern != "":
			if err := registry.HandlePattern(v.Pattern, handler); err != nil {
				return nil, fmt.Errorf("views[%d]: invalid pattern %q: %w", i, v.Pattern, err)
			}
		default:
			registry.HandleText(v.Match, handler)
		}
	}

	return registry, nil
}
