package storage

import (
	"context"
	"time"
)

// AuthStorage defines interface for storing the CLI session on client
type AuthStorage interface {
	// SaveAuth replaces the current session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves the current session.
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the current session (logout).
	// Returns ErrAuthNotFound if no session exists
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if a session exists and its token is not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents a logged-in session in storage
type AuthData struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Token    string `json:"token"`
	Server   string `json:"server"`
	// ExpiresAt - unix время истечения токена, 0 если токен бессрочный
	ExpiresAt int64 `json:"expires_at"`
}

// Expired сообщает, истек ли токен к моменту now
func (a *AuthData) Expired(now time.Time) bool {
	return a.ExpiresAt != 0 && !now.Before(time.Unix(a.ExpiresAt, 0))
}
