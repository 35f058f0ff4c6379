// Package common defines shared constants and sentinel errors used across
// the layers of the catalog service. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Caller-identity errors. ErrNotAuthenticated means no token was
	// presented at all; ErrUserNotFound means the token resolved to no
	// provisioned user record, which is a configuration fault.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUserNotFound     = errors.New("no user with this token found")

	// Authorization and catalog errors.
	ErrAccessDenied  = errors.New("no access to file")
	ErrEntryNotFound = errors.New("entry not found")

	// ErrCycleDetected is returned by the path resolver when an entry's
	// ancestor chain revisits an id. The no-cycle invariant is not
	// enforced by the storage layer, so the walk must fail safe.
	ErrCycleDetected = errors.New("cycle detected in folder hierarchy")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
