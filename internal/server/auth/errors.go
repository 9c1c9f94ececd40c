package auth

import "errors"

// Authentication and authorization errors
var (
	// ErrInvalidCredentials indicates an unknown username or a wrong password
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken indicates a token that cannot be resolved to an identity
	ErrInvalidToken = errors.New("token invalid")

	// ErrMissingToken indicates that the operation requires a token and none was given
	ErrMissingToken = errors.New("token missing")

	// ErrForbidden indicates a valid identity without permission on the resource
	ErrForbidden = errors.New("only the owner can modify this post")
)
