// Package notify dispatches outbound notifications. The core treats senders
// as side-effecting collaborators; delivery guarantees are out of scope.
package notify

import "context"

// Notifier sends a password-reset token to a recipient address.
type Notifier interface {
	SendPasswordReset(ctx context.Context, recipient, token string) error
}
