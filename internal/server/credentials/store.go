// Package credentials tracks the single live refresh token per principal.
// It is the sole source of truth for refresh-token revocation: a refresh
// token is only honored while it is byte-equal to the stored value, so a
// logout or a newer login invalidates every previously issued token even if
// the token itself is still cryptographically valid.
package credentials

import "context"

// Store holds, per subject (email), either no refresh token or the single
// currently issued one. Set and Clear must be atomic per subject.
type Store interface {
	// Set overwrites the stored refresh token for the subject.
	Set(ctx context.Context, subject, token string) error
	// Clear removes any stored refresh token for the subject. Clearing an
	// already-empty entry is not an error.
	Clear(ctx context.Context, subject string) error
	// Get returns the stored refresh token, or common.ErrNotFound when the
	// subject has none (or does not exist).
	Get(ctx context.Context, subject string) (string, error)
}
