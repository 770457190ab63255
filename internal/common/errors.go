// Package common defines shared constants and sentinel errors used across
// the server, its repositories and the admin CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Reading position outside the paragraph bounds of a book, or a book
	// without sentences.
	ErrorOutOfRange = errors.New("out of range")

	// Auth errors (invalid, expired or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
)
