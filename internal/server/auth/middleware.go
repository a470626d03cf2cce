package auth

import (
	"net/http"
	"strings"

	"github.com/chillele/studymate/internal/logging"
	"github.com/chillele/studymate/internal/server/users"
)

// Authenticator is the per-request authentication middleware. It resolves a bearer access
// token to a principal and attaches it to the request context. It never
// rejects a request itself: a missing, expired, garbled, or unresolvable
// token simply leaves the request anonymous, and route-level policy decides
// whether anonymous is acceptable.
type Authenticator struct {
	codec  *Codec
	users  users.Repository
	logger logging.Logger
}

func NewAuthenticator(codec *Codec, repo users.Repository, logger logging.Logger) *Authenticator {
	return &Authenticator{
		codec:  codec,
		users:  repo,
		logger: logger.With("module", "authenticator"),
	}
}

// Middleware wraps next with bearer-token resolution.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := resolveBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := a.codec.Parse(token, KindAccess)
		if err != nil {
			// invalid or expired credential degrades to anonymous
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.users.FindByEmail(r.Context(), subject)
		if err != nil {
			// token subject no longer resolves to an account
			a.logger.Warn(r.Context(), "token subject not found", "subject", subject)
			next.ServeHTTP(w, r)
			return
		}

		ctx := withPrincipal(r.Context(), Principal{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func resolveBearerToken(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if strings.HasPrefix(bearer, "Bearer ") {
		return strings.TrimPrefix(bearer, "Bearer ")
	}
	return ""
}
