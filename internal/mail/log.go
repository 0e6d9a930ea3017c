package mail

import (
	"context"
	"log/slog"
	"sort"
)

// LogDispatcher renders messages and writes them to the log instead of
// sending them. Used when SMTP_HOST is unset outside production. Template
// data carries activation codes and OTPs, so only its keys are logged.
type LogDispatcher struct {
	renderer *Renderer
	logger   *slog.Logger
}

func NewLogDispatcher(renderer *Renderer, logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{renderer: renderer, logger: logger}
}

func (d *LogDispatcher) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if _, err := d.renderer.Render(msg.Template, msg.Data); err != nil {
		return err
	}
	d.logger.Info("mail delivery skipped, SMTP not configured",
		"to", msg.To,
		"subject", msg.Subject,
		"template", msg.Template,
		"fields", dataKeys(msg.Data),
	)
	return nil
}

func dataKeys(data map[string]interface{}) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
