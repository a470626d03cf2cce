// Package mail delivers transactional email for the StudyMate server.
package mail

import "context"

// Sender dispatches a single plain-text message. Implementations must be
// safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}
