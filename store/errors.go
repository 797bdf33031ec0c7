package store

import "errors"

// Common store errors.
var (
	// ErrNotFound is returned when a user or session is not found.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a signup reuses an email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned when authentication fails.
	// Deliberately indistinguishable between "no such user" and
	// "wrong password".
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredToken is returned when a session token has expired.
	ErrExpiredToken = errors.New("token expired")
)
