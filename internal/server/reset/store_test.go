package reset

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChallengeStore_StateMachine(t *testing.T) {
	t.Parallel()

	s := NewChallengeStore(10 * time.Minute)

	// NoChallenge: nothing to consume
	require.False(t, s.ConsumeCode("a@x.com", "123456"))
	require.False(t, s.ConsumeVerified("a@x.com"))

	// CodeSent
	s.PutCode("a@x.com", "123456")
	require.False(t, s.ConsumeCode("a@x.com", "000000"), "wrong code must fail")
	code, ok := s.pendingCode("a@x.com")
	require.True(t, ok, "wrong code must leave the challenge pending")
	require.Equal(t, "123456", code)

	// Verified
	require.True(t, s.ConsumeCode("a@x.com", "123456"))
	require.False(t, s.ConsumeCode("a@x.com", "123456"), "code is consumed on match")

	// terminal
	require.True(t, s.ConsumeVerified("a@x.com"))
	require.False(t, s.ConsumeVerified("a@x.com"), "verified marker is single-use")
}

func TestChallengeStore_NewRequestOverwrites(t *testing.T) {
	t.Parallel()

	s := NewChallengeStore(10 * time.Minute)

	s.PutCode("a@x.com", "111111")
	s.PutCode("a@x.com", "222222")

	require.False(t, s.ConsumeCode("a@x.com", "111111"))
	require.True(t, s.ConsumeCode("a@x.com", "222222"))
}

func TestChallengeStore_ExpiryCheckedAtRead(t *testing.T) {
	t.Parallel()

	s := NewChallengeStore(10 * time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.PutCode("a@x.com", "123456")

	now = now.Add(11 * time.Minute)
	require.False(t, s.ConsumeCode("a@x.com", "123456"), "expired code must fail")
	_, ok := s.pendingCode("a@x.com")
	require.False(t, ok, "expired entry is dropped")
}

func TestChallengeStore_VerifiedExpires(t *testing.T) {
	t.Parallel()

	s := NewChallengeStore(10 * time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.PutCode("a@x.com", "123456")
	require.True(t, s.ConsumeCode("a@x.com", "123456"))

	now = now.Add(11 * time.Minute)
	require.False(t, s.ConsumeVerified("a@x.com"), "stale verified marker must expire")
}

func TestChallengeStore_ConcurrentEmailsIndependent(t *testing.T) {
	t.Parallel()

	const emails = 50
	const writesPerEmail = 20

	s := NewChallengeStore(10 * time.Minute)

	var wg sync.WaitGroup
	last := make([]string, emails)
	for i := 0; i < emails; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@x.com", i)
			var code string
			for j := 0; j < writesPerEmail; j++ {
				code = fmt.Sprintf("%03d%03d", i, j)
				s.PutCode(email, code)
			}
			last[i] = code
		}(i)
	}
	wg.Wait()

	// every email retains its own last-written code
	for i := 0; i < emails; i++ {
		email := fmt.Sprintf("user%d@x.com", i)
		code, ok := s.pendingCode(email)
		require.True(t, ok, "email %s lost its challenge", email)
		require.Equal(t, last[i], code, "email %s holds a foreign or stale code", email)
	}
}
