package storage

import (
	"context"

	"github.com/iudanet/bloglist/internal/models"
)

// UserStorage defines interface for user persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if username is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username (case-sensitive)
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// ListUsers returns all users in creation order
	ListUsers(ctx context.Context) ([]*models.User, error)
}
