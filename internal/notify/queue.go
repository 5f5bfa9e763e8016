package notify

import (
	"context"
	"fmt"

	"github.com/enrolld/enrolld/jobs"
)

// QueueNotifier hands delivery off to the background worker via the
// job queue. Enqueue failure is reported to the caller, which treats it
// as a non-fatal warning.
type QueueNotifier struct {
	client *jobs.Client
}

// NewQueueNotifier constructs a QueueNotifier.
func NewQueueNotifier(client *jobs.Client) *QueueNotifier {
	return &QueueNotifier{client: client}
}

// SendActivationCode enqueues a mail:send task for the worker.
func (n *QueueNotifier) SendActivationCode(ctx context.Context, email, code string) error {
	_, err := n.client.EnqueueSendEmail(ctx, jobs.SendEmailPayload{
		To:      email,
		Subject: Subject,
		Body:    Body(code),
	})
	if err != nil {
		return fmt.Errorf("notify: enqueue activation mail: %w", err)
	}
	return nil
}
