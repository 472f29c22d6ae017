package auth

import "errors"

// Common authentication errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid session token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("session token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("session token is missing")

	// ErrSessionNotFound indicates the token is well formed but no live
	// session record backs it (logged out, expired, or server restarted).
	ErrSessionNotFound = errors.New("session not found")

	// ErrWeakSecret is returned when the signing secret is too short.
	ErrWeakSecret = errors.New("session secret must be at least 32 characters")
)
