package auth

import "errors"

// Credential and policy failures surfaced by Register and Login. The policy
// checks (email shape, minimum password length) run before any store call.
var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrWeakPassword     = errors.New("password must be at least 6 characters")
	ErrEmailInUse       = errors.New("email already in use")
	ErrUserNotFound     = errors.New("no user registered with this email")
	ErrWrongPassword    = errors.New("wrong password")
	ErrTooManyAttempts  = errors.New("too many failed login attempts")
	ErrPasswordMismatch = errors.New("passwords do not match")
)
