package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/logging"
	"github.com/chillele/studymate/internal/server/users"
)

type fakeUsersRepo struct {
	byEmail map[string]*users.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *users.User) (*users.User, error) {
	return u, nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*users.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id, hash string) error { return nil }
func (f *fakeUsersRepo) UpdateName(ctx context.Context, id, name string) error     { return nil }
func (f *fakeUsersRepo) ListTechStacks(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}
func (f *fakeUsersRepo) ReplaceTechStacks(ctx context.Context, userID string, techs []string) error {
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func newTestAuthenticator(t *testing.T) (*Authenticator, *Codec) {
	t.Helper()
	codec := NewCodec([]byte("test-secret"), 30*time.Minute, 7*24*time.Hour)
	repo := &fakeUsersRepo{byEmail: map[string]*users.User{
		"a@x.com": {ID: "u-1", Email: "a@x.com", Name: "Alice", Role: users.RoleUser},
	}}
	return NewAuthenticator(codec, repo, testLogger()), codec
}

// probe records what the downstream handler observed.
func probe(got *Principal, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_AttachesPrincipal(t *testing.T) {
	t.Parallel()

	a, codec := newTestAuthenticator(t)

	tok, err := codec.Issue("a@x.com", KindAccess)
	require.NoError(t, err)

	var p Principal
	var ok bool
	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	a.Middleware(probe(&p, &ok)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	require.Equal(t, "u-1", p.ID)
	require.Equal(t, "a@x.com", p.Email)
	require.Equal(t, users.RoleUser, p.Role)
}

func TestMiddleware_MissingHeaderIsAnonymous(t *testing.T) {
	t.Parallel()

	a, _ := newTestAuthenticator(t)

	var p Principal
	var ok bool
	req := httptest.NewRequest(http.MethodGet, "/api/studies", nil)
	rec := httptest.NewRecorder()
	a.Middleware(probe(&p, &ok)).ServeHTTP(rec, req)

	// the middleware never fails the request itself
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, ok)
}

func TestMiddleware_InvalidTokenIsAnonymous(t *testing.T) {
	t.Parallel()

	a, _ := newTestAuthenticator(t)

	for _, header := range []string{
		"Bearer garbage",
		"Bearer ",
		"Basic dXNlcjpwdw==",
	} {
		var p Principal
		var ok bool
		req := httptest.NewRequest(http.MethodGet, "/api/studies", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		a.Middleware(probe(&p, &ok)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.False(t, ok, "header %q must be anonymous", header)
	}
}

func TestMiddleware_RefreshTokenIsAnonymous(t *testing.T) {
	t.Parallel()

	a, codec := newTestAuthenticator(t)

	// a refresh token must not authenticate a request
	tok, err := codec.Issue("a@x.com", KindRefresh)
	require.NoError(t, err)

	var p Principal
	var ok bool
	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	a.Middleware(probe(&p, &ok)).ServeHTTP(rec, req)

	require.False(t, ok)
}

func TestMiddleware_DeletedAccountIsAnonymous(t *testing.T) {
	t.Parallel()

	a, codec := newTestAuthenticator(t)

	tok, err := codec.Issue("gone@x.com", KindAccess)
	require.NoError(t, err)

	var p Principal
	var ok bool
	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	a.Middleware(probe(&p, &ok)).ServeHTTP(rec, req)

	require.False(t, ok)
}
