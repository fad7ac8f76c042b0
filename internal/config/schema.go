// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for bottery.
package config

import "gopkg.in/yaml.v3"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "channel.telegram").
	Modules map[string]yaml.Node `yaml:"modules"`

	// Views declares static response rules wired into the view registry
	// at startup. Programmatic embedders register handlers directly instead.
	Views []ViewEntry `yaml:"views,omitempty"`
}

// ViewEntry is a declarative view rule: a message matching Match (exact,
// case-insensitive) or Pattern (regular expression) is answered with Reply.
// Exactly one of Match and Pattern must be set, unless Default is true.
type ViewEntry struct {
	Match   string `yaml:"match,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Default bool   `yaml:"default,omitempty"`
	Reply   string `yaml:"reply"`
}
