// Package sessions implements the login/logout/refresh lifecycle. It is the
// only writer of the credentials store: login stores the newly issued
// refresh token, logout clears it, and refresh compares the presented token
// against the stored one before minting a new access token.
package sessions

import (
	"context"
	"crypto/subtle"
	"errors"
	"regexp"

	"github.com/google/uuid"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/cryptox"
	"github.com/chillele/studymate/internal/logging"
	"github.com/chillele/studymate/internal/server/auth"
	"github.com/chillele/studymate/internal/server/credentials"
	"github.com/chillele/studymate/internal/server/users"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Name         string
}

type Service struct {
	users       users.Repository
	credentials credentials.Store
	codec       *auth.Codec
	hasher      cryptox.PasswordHasher
	logger      logging.Logger
}

func NewService(repo users.Repository, creds credentials.Store, codec *auth.Codec,
	hasher cryptox.PasswordHasher, logger logging.Logger) *Service {
	return &Service{
		users:       repo,
		credentials: creds,
		codec:       codec,
		hasher:      hasher,
		logger:      logger.With("module", "sessions"),
	}
}

// SignUp creates a new account with role "user". A malformed email yields
// ErrInvalidEmailFormat, an existing one ErrDuplicateAccount.
func (s *Service) SignUp(ctx context.Context, email, password, name string) error {
	if !emailPattern.MatchString(email) {
		return common.ErrInvalidEmailFormat
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return common.ErrInternal
	}

	_, err = s.users.Create(ctx, &users.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         users.RoleUser,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return common.ErrDuplicateAccount
		}
		s.logger.Error(ctx, "signup failed", "error", err.Error())
		return common.ErrInternal
	}

	s.logger.Info(ctx, "account created", "email", email)
	return nil
}

// Login verifies the credentials and mints one access and one refresh token.
// The refresh token replaces any previously stored one for the subject.
// Unknown emails and wrong passwords are reported identically.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if !s.hasher.Matches(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	accessToken, err := s.codec.Issue(user.Email, auth.KindAccess)
	if err != nil {
		return nil, common.ErrInternal
	}
	refreshToken, err := s.codec.Issue(user.Email, auth.KindRefresh)
	if err != nil {
		return nil, common.ErrInternal
	}

	if err := s.credentials.Set(ctx, user.Email, refreshToken); err != nil {
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "login", "email", user.Email)
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, Name: user.Name}, nil
}

// Logout clears the stored refresh token for the subject of the presented
// access token. It is idempotent: clearing an already-empty store succeeds.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	subject, err := s.codec.Parse(accessToken, auth.KindAccess)
	if err != nil {
		return common.ErrUnauthenticated
	}

	if err := s.credentials.Clear(ctx, subject); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthenticated
		}
		return common.ErrInternal
	}

	s.logger.Info(ctx, "logout", "email", subject)
	return nil
}

// Refresh validates the presented refresh token against both its signature
// and the stored value for its subject, and mints a new access token. The
// refresh token itself is not rotated. A token superseded by a later login,
// or cleared by logout, is permanently rejected even if unexpired.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	subject, err := s.codec.Parse(refreshToken, auth.KindRefresh)
	if err != nil {
		return "", "", common.ErrUnauthenticated
	}

	stored, err := s.credentials.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", "", common.ErrUnauthenticated
		}
		return "", "", common.ErrInternal
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return "", "", common.ErrUnauthenticated
	}

	user, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", "", common.ErrUnauthenticated
		}
		return "", "", common.ErrInternal
	}

	accessToken, err := s.codec.Issue(subject, auth.KindAccess)
	if err != nil {
		return "", "", common.ErrInternal
	}
	return accessToken, user.Name, nil
}
