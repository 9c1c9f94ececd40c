package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("expected `username` to be unique")

	// ErrPostNotFound indicates that post was not found in storage
	ErrPostNotFound = errors.New("post not found")
)
