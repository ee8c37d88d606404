package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// User repository sentinels.
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")

	// Contact repository sentinels.
	ErrContactNotFound = errors.New("contact not found")
)
