// Package common defines shared sentinel errors and small byte-buffer
// helpers used across gradebook packages. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Input contract violations.
	ErrInvalidInput = errors.New("invalid input")

	// Stored credential format errors.
	ErrInvalidHash       = errors.New("invalid hash format")
	ErrUnknownHashFormat = errors.New("unknown hash format")
	ErrUnknownDriver     = errors.New("unknown hash driver")

	// Repository-level errors.
	ErrorNotFound           = errors.New("not found")
	ErrorLoginAlreadyExists = errors.New("login already exists")
	ErrorLastAccount        = errors.New("at least one account must remain")

	// Service-level errors.
	ErrorInternal              = errors.New("internal error")
	ErrorUnauthorized          = errors.New("unauthorized")
	ErrorForbidden             = errors.New("forbidden")
	ErrorInvalidLoginFormat    = errors.New("invalid login format")
	ErrorInvalidPasswordFormat = errors.New("invalid password format")
	ErrorTooManyUsers          = errors.New("user limit reached")
	ErrorSelfDelete            = errors.New("cannot delete the logged-in user")
	ErrTooManyLoginAttempts    = errors.New("too many failed login attempts")
)
