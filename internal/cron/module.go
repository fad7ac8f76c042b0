package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gfabricio/bottery/internal/core"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Module{})
}

// Config holds the scheduler module configuration.
type Config struct {
	Announcements []AnnouncementCfg `yaml:"announcements"`
}

// AnnouncementCfg describes one scheduled announcement.
type AnnouncementCfg struct {
	Name     string `yaml:"name"`
	Schedule string `yaml:"schedule"`
	Channel  string `yaml:"channel"`
	ChatID   string `yaml:"chat_id"`
	Text     string `yaml:"text"`
}

// Module runs configured announcement jobs on cron schedules. The outbound
// sender is resolved from the "channel.dispatcher" service at Start().
type Module struct {
	config    Config
	appCtx    *core.AppContext
	logger    *slog.Logger
	scheduler *Scheduler
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "cron.scheduler",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	return node.Decode(&m.config)
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.appCtx = ctx
	m.logger = ctx.Logger
	m.scheduler = NewScheduler(m.logger)
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	var errs []error
	seen := make(map[string]struct{})

	for i, a := range m.config.Announcements {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("cron: announcements[%d]: name is required", i))
			continue
		}
		if _, dup := seen[a.Name]; dup {
			errs = append(errs, fmt.Errorf("cron: duplicate announcement name %q", a.Name))
		}
		seen[a.Name] = struct{}{}

		if a.Schedule == "" {
			errs = append(errs, fmt.Errorf("cron: announcement %q: schedule is required", a.Name))
		}
		if a.Channel == "" {
			errs = append(errs, fmt.Errorf("cron: announcement %q: channel is required", a.Name))
		}
		if a.ChatID == "" {
			errs = append(errs, fmt.Errorf("cron: announcement %q: chat_id is required", a.Name))
		}
		if a.Text == "" {
			errs = append(errs, fmt.Errorf("cron: announcement %q: text is required", a.Name))
		}
	}

	return errors.Join(errs...)
}

// Start implements core.Starter.
func (m *Module) Start() error {
	if len(m.config.Announcements) == 0 {
		m.logger.Info("no announcements configured, scheduler idle")
		return nil
	}

	svc, ok := m.appCtx.Service("channel.dispatcher")
	if !ok {
		return errors.New("cron: channel.dispatcher service not available")
	}
	sender, ok := svc.(Sender)
	if !ok {
		return fmt.Errorf("cron: channel.dispatcher service has type %T", svc)
	}

	for _, a := range m.config.Announcements {
		job := &AnnouncementJob{
			JobName:      a.Name,
			ScheduleExpr: a.Schedule,
			Channel:      a.Channel,
			ChatID:       a.ChatID,
			Text:         a.Text,
			Sender:       sender,
			Logger:       m.logger,
		}
		if err := m.scheduler.RegisterJob(job); err != nil {
			return err
		}
	}

	return m.scheduler.Start()
}

// Stop implements core.Stopper.
func (m *Module) Stop(ctx context.Context) error {
	return m.scheduler.Stop(ctx)
}
