package port

import "context"

// Notifier delivers an email to a single recipient. Implementations use a
// short timeout and never retry; callers surface failures and decide whether
// committed state is kept (it is, for the action ledger).
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
