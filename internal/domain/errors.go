package domain

import "errors"

var (
	// ErrNoMatchingClue is returned when no corpus entry satisfies the filter.
	ErrNoMatchingClue = errors.New("no matching clue")
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when registering an already-taken username.
	ErrUserExists = errors.New("username already in use")
	// ErrInvalidCredentials is returned for unknown users or wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound is returned for missing or expired session tokens.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTokenExpired is returned when a password-reset token is past its expiry.
	ErrTokenExpired = errors.New("reset token expired")
	// ErrValidation flags rejected caller input; wrap with detail via fmt.Errorf.
	ErrValidation = errors.New("validation failed")
	// ErrStoreUnavailable marks transient document-store failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)
