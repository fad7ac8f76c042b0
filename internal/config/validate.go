package config

import (
	"errors"
	"fmt"

	"github.com/gfabricio/bottery/internal/core"
)

// Validate checks the structural validity of a Config. It verifies the
// version field, ensures modules are present, checks that all referenced
// module IDs exist in the registry, and validates view rules.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if len(cfg.Modules) == 0 {
		errs = append(errs, errors.New("config: at least one module must be configured"))
	}

	for id := range cfg.Modules {
		if _, ok := core.GetModule(id); !ok {
			errs = append(errs, fmt.Errorf("config: unknown module %q", id))
		}
	}

	errs = append(errs, validateViews(cfg.Views)...)

	return errors.Join(errs...)
}

func validateViews(views []ViewEntry) []error {
	var errs []error
	var defaults int

	for i, v := range views {
		if v.Reply == "" {
			errs = append(errs, fmt.Errorf("config: views[%d]: reply is required", i))
		}

		switch {
		case v.Default:
			defaults++
			if v.Match != "" || v.Pattern != "" {
				errs = append(errs, fmt.Errorf("config: views[%d]: default rule must not set match or pattern", i))
			}
		case v.Match != "" && v.Pattern != "":
			errs = append(errs, fmt.Errorf("config: views[%d]: match and pattern are mutually exclusive", i))
		case v.Match == "" && v.Pattern == "":
			errs = append(errs, fmt.Errorf("config: views[%d]: one of match or pattern is required", i))
		}
	}

	if defaults > 1 {
		errs = append(errs, fmt.Errorf("config: at most one default view is allowed, got %d", defaults))
	}

	return errs
}
