package storage

import "context"

// Store is a complete backend: users, posts and lifecycle.
type Store interface {
	UserStorage
	PostStorage

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close releases backend resources
	Close() error
}
