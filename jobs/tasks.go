package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeCodeCleanup is the task type for purging expired activation codes.
	TaskTypeCodeCleanup = "codes:cleanup"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// Sender sends a fully rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SendEmailJob processes TaskTypeSendEmail tasks.
type SendEmailJob struct {
	sender Sender
	logger *slog.Logger
}

// NewSendEmailJob constructs the handler for queued mail.
func NewSendEmailJob(sender Sender, logger *slog.Logger) *SendEmailJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SendEmailJob{sender: sender, logger: logger}
}

// Handle delivers a queued message through the configured sender.
func (j *SendEmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := j.sender.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		j.logger.Warn("queued mail delivery failed",
			slog.String("to", payload.To), slog.Any("error", err))
		return err
	}
	return nil
}

// CodeCleanupPayload carries the cutoff policy for a cleanup run.
type CodeCleanupPayload struct {
	TTL time.Duration `json:"ttl"`
}

// NewCodeCleanupTask constructs a cleanup task for codes older than ttl.
func NewCodeCleanupTask(ttl time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(CodeCleanupPayload{TTL: ttl})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeCodeCleanup, data), nil
}

// CodePurger removes expired activation codes from storage.
type CodePurger interface {
	DeleteExpiredCodes(ctx context.Context, olderThan time.Time) (int64, error)
}

// CodeCleanupJob processes TaskTypeCodeCleanup tasks.
type CodeCleanupJob struct {
	purger CodePurger
	logger *slog.Logger
	now    func() time.Time
}

// NewCodeCleanupJob constructs the cleanup handler.
func NewCodeCleanupJob(purger CodePurger, logger *slog.Logger) *CodeCleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &CodeCleanupJob{purger: purger, logger: logger, now: time.Now}
}

// Handle purges activation codes that outlived the TTL in the payload.
func (j *CodeCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload CodeCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.TTL <= 0 {
		return asynq.SkipRetry
	}
	removed, err := j.purger.DeleteExpiredCodes(ctx, j.now().Add(-payload.TTL))
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.Info("expired activation codes purged", slog.Int64("count", removed))
	}
	return nil
}
