package adapter

import "context"

// OpsNotifier delivers operational messages to the configured staff
// mailbox. Implementations must be safe for concurrent use; idempotency is
// the caller's concern (see CodeNotificationRepository).
type OpsNotifier interface {
	Send(ctx context.Context, subject, body string) error
}
