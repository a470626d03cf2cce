// Package reset implements the multi-step password-reset flow: a transient,
// concurrently accessed challenge store and the service that drives the
// request-code / verify-code / reset-password state machine.
package reset

import (
	"sync"
	"time"
)

type stage int

const (
	stageCodeSent stage = iota
	stageVerified
)

type challenge struct {
	stage     stage
	code      string
	expiresAt time.Time
}

// ChallengeStore holds at most one outstanding challenge per email. Entries
// for different emails are fully independent: the underlying sync.Map gives
// per-key access without a store-wide lock. Entries expire at read time;
// there is no background sweep.
type ChallengeStore struct {
	entries sync.Map // email -> challenge
	ttl     time.Duration
	now     func() time.Time
}

func NewChallengeStore(ttl time.Duration) *ChallengeStore {
	return &ChallengeStore{ttl: ttl, now: time.Now}
}

// PutCode records a fresh pending code for the email, overwriting any prior
// challenge in whatever stage it was.
func (s *ChallengeStore) PutCode(email, code string) {
	s.entries.Store(email, challenge{
		stage:     stageCodeSent,
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	})
}

// ConsumeCode compares the presented code against the pending one. On match
// the code is cleared and the email advances to the verified stage. A
// missing, mismatched, expired, or already-consumed code returns false and
// leaves the stored state unchanged (expired entries are dropped).
func (s *ChallengeStore) ConsumeCode(email, code string) bool {
	v, ok := s.entries.Load(email)
	if !ok {
		return false
	}
	ch := v.(challenge)
	if s.now().After(ch.expiresAt) {
		s.entries.Delete(email)
		return false
	}
	if ch.stage != stageCodeSent || ch.code != code {
		return false
	}
	s.entries.Store(email, challenge{
		stage:     stageVerified,
		expiresAt: s.now().Add(s.ttl),
	})
	return true
}

// ConsumeVerified reports whether the email is currently in the verified
// stage, removing the marker so a second consumption fails.
func (s *ChallengeStore) ConsumeVerified(email string) bool {
	v, ok := s.entries.Load(email)
	if !ok {
		return false
	}
	ch := v.(challenge)
	if s.now().After(ch.expiresAt) {
		s.entries.Delete(email)
		return false
	}
	if ch.stage != stageVerified {
		return false
	}
	s.entries.Delete(email)
	return true
}

// pendingCode returns the stored pending code, for tests.
func (s *ChallengeStore) pendingCode(email string) (string, bool) {
	v, ok := s.entries.Load(email)
	if !ok {
		return "", false
	}
	ch := v.(challenge)
	if ch.stage != stageCodeSent {
		return "", false
	}
	return ch.code, true
}
