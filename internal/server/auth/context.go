package auth

import "context"

// Principal is the authenticated identity resolved from an access token.
type Principal struct {
	ID    string
	Email string
	Name  string
	Role  string
}

type ctxKey string

const principalKey ctxKey = "studymate.auth.principal"

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal attached by the authenticator
// middleware, or ok=false when the request is anonymous.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
