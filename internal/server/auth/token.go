// Package auth implements token issuance and per-request authentication for
// the StudyMate server: a JWT codec for access and refresh tokens, request
// context helpers for the resolved principal, and the HTTP middleware that
// binds bearer tokens to identities.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chillele/studymate/internal/common"
)

// TokenKind distinguishes access tokens from refresh tokens. The kind is
// embedded in the signed payload, so a refresh token can never be replayed
// where an access token is expected and vice versa.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims carries the registered claims plus the token kind. Subject holds
// the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"kind"`
}

// Codec issues and parses signed, time-bounded tokens. All methods are pure
// functions over the input, the process-wide secret, and the wall clock, so
// a Codec is safe for concurrent use.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue produces a signed token for the subject with an absolute expiry
// derived from the kind's configured lifetime.
func (c *Codec) Issue(subject string, kind TokenKind) (string, error) {
	ttl := c.accessTTL
	if kind == KindRefresh {
		ttl = c.refreshTTL
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	})

	return token.SignedString(c.secret)
}

// Parse verifies the signature, expiry, and kind of the token and returns
// the embedded subject. Any failure yields common.ErrUnauthenticated so the
// caller cannot distinguish a forged token from an expired one.
func (c *Codec) Parse(tokenString string, kind TokenKind) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", common.ErrUnauthenticated
	}
	if claims.Kind != kind {
		return "", common.ErrUnauthenticated
	}
	if claims.Subject == "" {
		return "", common.ErrUnauthenticated
	}

	return claims.Subject, nil
}

// Validate reports whether the token is a currently valid token of the given
// kind. It fails closed: parse errors, bad signatures, expiry, and kind
// mismatches all return false, never an error.
func (c *Codec) Validate(tokenString string, kind TokenKind) bool {
	_, err := c.Parse(tokenString, kind)
	return err == nil
}
