// Package common defines shared constants and sentinel errors used across
// client and server layers of the invoicer. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Numbering / sync errors.
	ErrorServerBusy   = errors.New("server is busy, try again")
	ErrorSyncInFlight = errors.New("sync already in progress")

	// Auth errors.
	ErrInvalidToken  = errors.New("invalid token")
	ErrUserSuspended = errors.New("user suspended")

	// Validation errors.
	ErrorValidation    = errors.New("validation error")
	ErrorAlreadyExists = errors.New("already exists")
)
