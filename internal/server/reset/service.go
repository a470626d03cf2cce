package reset

import (
	"context"
	"errors"
	"fmt"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/cryptox"
	"github.com/chillele/studymate/internal/logging"
	"github.com/chillele/studymate/internal/server/mail"
	"github.com/chillele/studymate/internal/server/users"
)

const codeLength = 6

// Service drives the password-reset state machine per email:
// NoChallenge -> CodeSent -> Verified -> consumed.
type Service struct {
	users  users.Repository
	store  *ChallengeStore
	mailer mail.Sender
	hasher cryptox.PasswordHasher
	logger logging.Logger
}

func NewService(repo users.Repository, store *ChallengeStore, mailer mail.Sender,
	hasher cryptox.PasswordHasher, logger logging.Logger) *Service {
	return &Service{
		users:  repo,
		store:  store,
		mailer: mailer,
		hasher: hasher,
		logger: logger.With("module", "reset"),
	}
}

// RequestCode generates a 6-digit code for a registered email, stores it
// (overwriting any prior challenge), and dispatches it by mail. Delivery
// failures propagate to the caller.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnknownAccount
		}
		return common.ErrInternal
	}

	code, err := common.MakeRandDigitCode(codeLength)
	if err != nil {
		return common.ErrInternal
	}

	s.store.PutCode(email, code)

	if err := s.mailer.Send(ctx, email,
		"[StudyMate] Password reset verification code",
		fmt.Sprintf("Your verification code is: %s\n\nPlease enter it within 10 minutes.", code)); err != nil {
		s.logger.Error(ctx, "reset code delivery failed", "email", email, "error", err.Error())
		return fmt.Errorf("sending reset code: %w", err)
	}

	s.logger.Info(ctx, "reset code sent", "email", email)
	return nil
}

// VerifyCode advances the email to the verified stage when the code matches.
// A wrong code leaves the pending challenge in place.
func (s *Service) VerifyCode(ctx context.Context, email, code string) error {
	if !s.store.ConsumeCode(email, code) {
		return common.ErrInvalidCode
	}
	s.logger.Info(ctx, "reset code verified", "email", email)
	return nil
}

// ResetPassword re-hashes and persists the new password for an email in the
// verified stage and consumes the challenge; a repeat call fails.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if !s.store.ConsumeVerified(email) {
		return common.ErrNotVerified
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnknownAccount
		}
		return common.ErrInternal
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrInternal
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return common.ErrInternal
	}

	s.logger.Info(ctx, "password reset", "email", email)
	return nil
}
