// Package notify delivers activation codes to registered email addresses.
// The transport is selected by configuration, not by branching inside the
// registration service.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/enrolld/enrolld/internal/app"
	"github.com/enrolld/enrolld/internal/registration"
	"github.com/enrolld/enrolld/jobs"
)

// LogNotifier writes the code to the log instead of sending mail. It is
// the development and test stand-in for a real transport.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// SendActivationCode logs the delivery instead of performing it.
func (n *LogNotifier) SendActivationCode(ctx context.Context, email, code string) error {
	n.logger.Info("mock activation code delivery",
		slog.String("email", email),
		slog.String("code", code))
	return nil
}

// Send logs a rendered message, standing in for a mail transport in the
// background worker.
func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.logger.Info("mock mail delivery",
		slog.String("to", to),
		slog.String("subject", subject))
	return nil
}

// FromConfig selects the notifier implementation named by cfg.Notifier.
func FromConfig(cfg *app.Config, logger *slog.Logger, queue *jobs.Client) (registration.Notifier, error) {
	switch cfg.Notifier {
	case "log":
		return NewLogNotifier(logger), nil
	case "smtp":
		return NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom), nil
	case "queue":
		if queue == nil {
			return nil, fmt.Errorf("notify: queue notifier requires a jobs client")
		}
		return NewQueueNotifier(queue), nil
	default:
		return nil, fmt.Errorf("notify: unknown notifier %q", cfg.Notifier)
	}
}
