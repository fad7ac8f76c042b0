package core

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestAppContext_ForModule(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx := NewAppContext(logger, "/data")
	child := ctx.ForModule("channel.telegram")

	child.Logger.Info("hello")

	if !bytes.Contains(buf.Bytes(), []byte("channel.telegram")) {
		t.Errorf("expected child logger to contain module ID, got: %s", buf.String())
	}
}

func TestAppContext_Services(t *testing.T) {
	ctx := NewAppContext(nil, "/data")

	if _, ok := ctx.Service("missing"); ok {
		t.Error("Service(missing) = ok, want false")
	}

	ctx.RegisterService("some.service", 42)
	svc, ok := ctx.Service("some.service")
	if !ok {
		t.Fatal("Service() = false, want registered service")
	}
	if svc.(int) != 42 {
		t.Errorf("service = %v, want 42", svc)
	}

	// Module-scoped contexts share the same registry.
	child := ctx.ForModule("test.mod")
	child.RegisterService("child.service", "x")
	if _, ok := ctx.Service("child.service"); !ok {
		t.Error("parent context should see services registered by children")
	}
}

func TestAppContext_LoadModule(t *testing.T) {
	t.Cleanup(resetRegistry)

	provisioned := false
	validated := false

	RegisterModule(&trackingModule{
		id:          "test.loadmod",
		onProvision: func() { provisioned = true },
		onValidate:  func() { validated = true },
	})

	ctx := NewAppContext(nil, "/data")
	mod, err := ctx.LoadModule("test.loadmod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod == nil {
		t.Fatal("expected non-nil module")
	}
	if !provisioned {
		t.Error("expected Provision to be called")
	}
	if !validated {
		t.Error("expected Validate to be called")
	}
}

func TestAppContext_LoadModule_UnknownID(t *testing.T) {
	t.Cleanup(resetRegistry)

	ctx := NewAppContext(nil, "/data")
	_, err := ctx.LoadModule("does.not.exist")
	if err == nil {
		t.Fatal("expected error for unknown module")
	}
}

func TestAppContext_LoadModule_ValidateError(t *testing.T) {
	t.Cleanup(resetRegistry)

	RegisterModule(&trackingModule{
		id:          "test.valfail",
		validateErr: errors.New("validate boom"),
	})

	ctx := NewAppContext(nil, "/data")
	_, err := ctx.LoadModule("test.valfail")
	if err == nil {
		t.Fatal("expected error on validate failure")
	}
}

func TestAppContext_LoadModule_WithConfig(t *testing.T) {
	t.Cleanup(resetRegistry)

	configured := false
	receivedKey := ""
	RegisterModule(&configurableMod{
		id:          "test.cfgmod",
		configured:  &configured,
		receivedKey: &receivedKey,
	})

	var node yaml.Node
	if err := yaml.Unmarshal([]byte("key: hello"), &node); err != nil {
		t.Fatal(err)
	}

	ctx := NewAppContext(nil, "/data")
	ctx = ctx.WithModuleConfigs(map[string]yaml.Node{
		"test.cfgmod": *node.Content[0],
	})

	if _, err := ctx.LoadModule("test.cfgmod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !configured {
		t.Error("expected Configure to be called")
	}
	if receivedKey != "hello" {
		t.Errorf("receivedKey = %q, want %q", receivedKey, "hello")
	}
}

func TestAppContext_LoadModule_NoConfig(t *testing.T) {
	t.Cleanup(resetRegistry)

	configured := false
	RegisterModule(&configurableMod{
		id:         "test.noconfig",
		configured: &configured,
	})

	// No config provided, so Configure should not be called.
	ctx := NewAppContext(nil, "/data")
	if _, err := ctx.LoadModule("test.noconfig"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if configured {
		t.Error("Configure should not be called when no config is provided")
	}
}

// trackingModule is a test helper that tracks lifecycle calls.
type trackingModule struct {
	id           ModuleID
	onProvision  func()
	onValidate   func()
	provisionErr error
	validateErr  error
}

func (m *trackingModule) ModuleInfo() ModuleInfo {
	id := m.id
	return ModuleInfo{
		ID: id,
		New: func() Module {
			return &trackingModule{
				id:           id,
				onProvision:  m.onProvision,
				onValidate:   m.onValidate,
				provisionErr: m.provisionErr,
				validateErr:  m.validateErr,
			}
		},
	}
}

func (m *trackingModule) Provision(_ *AppContext) error {
	if m.onProvision != nil {
		m.onProvision()
	}
	return m.provisionErr
}

func (m *trackingModule) Validate() error {
	if m.onValidate != nil {
		m.onValidate()
	}
	return m.validateErr
}

// configurableMod is a test module that implements Configurable.
type configurableMod struct {
	id          ModuleID
	configured  *bool
	receivedKey *string
}

func (m *configurableMod) ModuleInfo() ModuleInfo {
	id := m.id
	return ModuleInfo{
		ID: id,
		New: func() Module {
			return &configurableMod{
				id:          id,
				configured:  m.configured,
				receivedKey: m.receivedKey,
			}
		},
	}
}

func (m *configurableMod) Configure(node *yaml.Node) error {
	if m.configured != nil {
		*m.configured = true
	}
	if m.receivedKey != nil {
		var parsed struct {
			Key string `yaml:"key"`
		}
		if err := node.Decode(&parsed); err != nil {
			return err
		}
		*m.receivedKey = parsed.Key
	}
	return nil
}
