package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bottery.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("BOTTERY_TEST_TOKEN", "123:abc")

	path := writeConfig(t, `
version: "1"
modules:
  channel.telegram:
    token: ${BOTTERY_TEST_TOKEN}
    mode: ${BOTTERY_TEST_MODE:-polling}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	node, ok := cfg.Modules["channel.telegram"]
	if !ok {
		t.Fatal("missing channel.telegram module config")
	}

	var decoded struct {
		Token string `yaml:"token"`
		Mode  string `yaml:"mode"`
	}
	if err := node.Decode(&decoded); err != nil {
		t.Fatalf("decode module node: %v", err)
	}
	if decoded.Token != "123:abc" {
		t.Errorf("token = %q, want %q", decoded.Token, "123:abc")
	}
	if decoded.Mode != "polling" {
		t.Errorf("mode = %q, want default %q", decoded.Mode, "polling")
	}
}

func TestLoadUnresolvedVariable(t *testing.T) {
	path := writeConfig(t, `
version: "1"
modules:
  channel.telegram:
    token: ${DEFINITELY_NOT_SET_VAR}
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() = nil error, want unresolved variable error")
	}
	if !strings.Contains(err.Error(), "DEFINITELY_NOT_SET_VAR") {
		t.Errorf("error %q should name the unresolved variable", err)
	}
}

func TestValidateVersion(t *testing.T) {
	cfg := &Config{Version: "2"}
	if err := Validate(cfg); err == nil {
		t.Error("Validate() = nil, want error for unsupported version")
	}

	cfg = &Config{}
	if err := Validate(cfg); err == nil {
		t.Error("Validate() = nil, want error for missing version")
	}
}

func TestValidateUnknownModule(t *testing.T) {
	path := writeConfig(t, `
version: "1"
modules:
  no.such.module: {}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Validate(cfg); err == nil {
		t.Error("Validate() = nil, want error for unknown module")
	}
}

func TestValidateViews(t *testing.T) {
	tests := []struct {
		name    string
		views   []ViewEntry
		wantErr bool
	}{
		{"exact rule", []ViewEntry{{Match: "ping", Reply: "pong"}}, false},
		{"pattern rule", []ViewEntry{{Pattern: "^/start", Reply: "hi"}}, false},
		{"default rule", []ViewEntry{{Default: true, Reply: "?"}}, false},
		{"missing reply", []ViewEntry{{Match: "ping"}}, true},
		{"match and pattern", []ViewEntry{{Match: "a", Pattern: "b", Reply: "x"}}, true},
		{"neither match nor pattern", []ViewEntry{{Reply: "x"}}, true},
		{"two defaults", []ViewEntry{{Default: true, Reply: "a"}, {Default: true, Reply: "b"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateViews(tt.views)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("validateViews() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestResolveSortsIDs(t *testing.T) {
	path := writeConfig(t, `
version: "1"
modules:
  gateway.http: {}
  channel.telegram: {}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ids := Resolve(cfg)
	if len(ids) != 2 || ids[0] != "channel.telegram" || ids[1] != "gateway.http" {
		t.Errorf("Resolve() = %v, want sorted [channel.telegram gateway.http]", ids)
	}
}
