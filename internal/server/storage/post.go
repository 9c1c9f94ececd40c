package storage

import (
	"context"

	"github.com/iudanet/bloglist/internal/models"
)

// PostStorage defines interface for blog post persistence.
// Every method is an atomic single-record operation.
type PostStorage interface {
	// CreatePost inserts a post. post.ID is the public identifier and must be set.
	CreatePost(ctx context.Context, post *models.Post) error

	// ListPosts returns all posts in insertion order
	ListPosts(ctx context.Context) ([]*models.Post, error)

	// ListPostsByOwner returns posts owned by userID in insertion order
	ListPostsByOwner(ctx context.Context, userID string) ([]*models.Post, error)

	// GetPost retrieves a post by its public ID
	// Returns ErrPostNotFound if post doesn't exist
	GetPost(ctx context.Context, id string) (*models.Post, error)

	// UpdatePost applies patch to the post and returns the stored result
	// Returns ErrPostNotFound if post doesn't exist
	UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)

	// DeletePost removes a post
	// Returns ErrPostNotFound if post doesn't exist
	DeletePost(ctx context.Context, id string) error
}
