package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gfabricio/bottery/pkg/message"
)

// Sender is the subset of the channel dispatcher needed by cron jobs.
// Defined here to avoid a circular dependency on the channel package.
type Sender interface {
	Send(ctx context.Context, msg message.Outbound) error
}

// AnnouncementJob delivers a fixed text to a chat on a schedule.
type AnnouncementJob struct {
	JobName      string
	ScheduleExpr string
	Channel      string
	ChatID       string
	Text         string
	Sender       Sender
	Logger       *slog.Logger
}

// Compile-time interface check.
var _ Job = (*AnnouncementJob)(nil)

// Name implements Job.
func (j *AnnouncementJob) Name() string {
	return "announcement:" + j.JobName
}

// Schedule implements Job.
func (j *AnnouncementJob) Schedule() string {
	return j.ScheduleExpr
}

// Run sends the announcement through the channel dispatcher.
func (j *AnnouncementJob) Run(ctx context.Context) error {
	err := j.Sender.Send(ctx, message.Outbound{
		Channel: j.Channel,
		ChatID:  j.ChatID,
		Text:    j.Text,
	})
	if err != nil {
		return fmt.Errorf("cron: announcement %q: %w", j.JobName, err)
	}
	j.Logger.Info("cron: announcement sent", "job", j.JobName, "channel", j.Channel)
	return nil
}
