package services

import "errors"

// Sentinel errors for explicit error handling
// These errors allow callers to distinguish between different failure modes
// using errors.Is() instead of string matching

var (
	// ErrRateLimited indicates too many login attempts from one origin
	ErrRateLimited = errors.New("too many login attempts")

	// ErrInvalidCredentials indicates authentication failed; it covers both
	// unknown-username and wrong-password so the two are indistinguishable
	// to the caller
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked indicates the account is under a lockout window
	ErrAccountLocked = errors.New("account locked")

	// ErrSessionInvalid indicates the token or its session row failed
	// verification (malformed, forged, expired, or revoked)
	ErrSessionInvalid = errors.New("invalid or expired session")

	// ErrUserNotFound indicates the session's owning account no longer
	// exists or is inactive
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidAction indicates an unrecognized request action
	ErrInvalidAction = errors.New("invalid action")
)
