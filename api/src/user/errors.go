package user

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateIdentity means the store already holds a record with the
	// generated identity. Regenerate and retry at the transaction boundary.
	ErrDuplicateIdentity = errors.New("duplicate user identity")
	ErrDuplicateUsername = errors.New("username already taken")
)
