package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// Notifier sends one email. Implementations apply their own bounded
// timeout; callers treat every failure as non-fatal.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NotificationJob is one queued best-effort email, keyed by lead so the
// dispatcher can keep per-lead ordering.
type NotificationJob struct {
	LeadID  uuid.UUID
	To      string
	Subject string
	Body    string
}

// NotificationDispatcher enqueues notification jobs for asynchronous
// delivery. Enqueue never blocks the mutation response.
type NotificationDispatcher interface {
	Enqueue(job NotificationJob)
}

// Broadcaster publishes one mutation event to all connected subscribers.
// Fire-and-forget: errors are logged by callers and never surfaced.
type Broadcaster interface {
	Publish(ctx context.Context, event domain.Event) error
}
