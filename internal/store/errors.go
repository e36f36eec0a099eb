package store

import "errors"

// Common errors for store operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrItemNotFound = errors.New("item not found")
	ErrUserExists   = errors.New("user already exists")
	ErrItemExists   = errors.New("item already exists")
)
