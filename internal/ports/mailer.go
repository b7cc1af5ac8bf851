package ports

import (
	"context"

	"opevents/internal/domain/event"
)

type MailRecipient struct {
	Email string
	Name  string
}

// Mailer submits a notification for a captured event through the
// provider's mail endpoint using the application-level token. The call
// is one-shot: failures are returned, never retried or queued.
type Mailer interface {
	Notify(ctx context.Context, e event.Event, recipient MailRecipient) (string, error)
}
