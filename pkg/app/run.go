// Package app provides the shared entry point for the bottery binary.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gfabricio/bottery/internal/config"
	"github.com/gfabricio/bottery/internal/core"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// DataDir overrides the default persistent data directory.
	DataDir string

	// LogLevel sets the minimum log level. Defaults to slog.LevelInfo.
	LogLevel slog.Level
}

// Run loads configuration, wires channels to views, starts all modules, and
// blocks until a shutdown signal is received.
func Run(params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: params.LogLevel,
	}))

	dataDir := params.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	appCtx := core.NewAppContext(logger, dataDir)
	appCtx = appCtx.WithModuleConfigs(cfg.Modules)

	application := core.NewApp(appCtx)
	ids := config.Resolve(cfg)
	if err := application.LoadModules(ids); err != nil {
		return err
	}

	// Wire channels between LoadModules and Start: build the view registry
	// from config, hand it to every channel, and publish the channel
	// dispatcher for the gateway and scheduler to discover.
	if err := wireChannels(application, appCtx, cfg, ids, logger); err != nil {
		return err
	}

	logger.Info("bottery starting",
		"version", params.Version,
		"config", cfgPath,
	)

	return application.Run()
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/bottery/bottery.yaml →
// ~/.config/bottery/bottery.yaml → ./bottery.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "bottery", "bottery.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "bottery", "bottery.yaml"))
	}

	candidates = append(candidates, "bottery.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// DefaultDataDir returns the default persistent data directory.
// Uses $XDG_DATA_HOME/bottery if set, otherwise ~/.local/share/bottery.
func DefaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(dir, "bottery")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "bottery")
}
