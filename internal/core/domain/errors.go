package domain

import "errors"

// Registration and login failures. The messages are user-facing; the
// HTTP layer renders them verbatim.
var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrPasswordMismatch   = errors.New("confirmation password mismatch")
	ErrEmptyUsername      = errors.New("username must have at least 1 character")
	ErrEmptyPassword      = errors.New("password must have at least 1 character")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("credentials mismatch")
	ErrInvalidToken       = errors.New("invalid token")
)

// Ledger failures. Absent and not-owned deliberately collapse into a
// single not-found so callers cannot probe other users' data.
var (
	ErrInvalidTransactionType = errors.New("unrecognized transaction type")
	ErrTransactionNotFound    = errors.New("transaction not found")
)
