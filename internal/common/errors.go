// Package common defines shared constants and sentinel errors used across
// StudyMate components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Auth errors. ErrInvalidCredentials covers both an unknown email and a
	// wrong password so login failures are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrForbidden          = errors.New("forbidden")

	// Password-reset flow errors.
	ErrUnknownAccount = errors.New("unknown account")
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrNotVerified    = errors.New("email not verified")

	// Validation errors.
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrInvalidStatus      = errors.New("invalid status")

	// Participation errors.
	ErrAlreadyApplied = errors.New("already applied to this study")
	ErrOwnStudy       = errors.New("cannot apply to own study")
)
