// Package service implements the catalog operations on top of the stores
// and the authorization core. Handlers translate HTTP to these calls.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/bloglist/internal/models"
	"github.com/iudanet/bloglist/internal/server/auth"
	"github.com/iudanet/bloglist/internal/server/storage"
	"github.com/iudanet/bloglist/internal/stats"
	"github.com/iudanet/bloglist/internal/validation"
)

// ErrEmptyPatch is returned when an update carries no fields
var ErrEmptyPatch = &validation.Error{Message: "at least one field must be provided"}

// PostInput is the payload for creating a post. Likes is optional.
type PostInput struct {
	Likes  *int
	Title  string
	Author string
	URL    string
}

// PostService handles post CRUD with ownership rules
type PostService struct {
	logger *slog.Logger
	posts  storage.PostStorage
	authz  *auth.Authorizer
	now    func() time.Time
}

// NewPostService creates a new post service
func NewPostService(logger *slog.Logger, posts storage.PostStorage, authz *auth.Authorizer) *PostService {
	return &PostService{
		logger: logger,
		posts:  posts,
		authz:  authz,
		now:    time.Now,
	}
}

// ListPosts returns every post in insertion order
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a post by id
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// CreatePost validates input and stores a new post. With a valid token the
// caller becomes the owner; without one the post has no owner. A token that
// does not resolve fails the operation.
func (s *PostService) CreatePost(ctx context.Context, in PostInput, token string) (*models.Post, error) {
	principal, err := s.authz.Authenticate(token)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateURL(in.URL); err != nil {
		return nil, err
	}

	likes := 0
	if in.Likes != nil {
		if err := validation.ValidateLikes(*in.Likes); err != nil {
			return nil, err
		}
		likes = *in.Likes
	}

	now := s.now().UTC()
	post := &models.Post{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(in.Title),
		Author:    in.Author,
		URL:       strings.TrimSpace(in.URL),
		Likes:     likes,
		OwnerID:   s.authz.OwnerFor(principal),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.InfoContext(ctx, "post created",
		slog.String("post_id", post.ID),
		slog.Bool("owned", post.OwnerID != nil))

	return post, nil
}

// UpdatePost applies patch. Like changes are open to anyone, whatever token
// they carry; title, author or url changes require the owner.
func (s *PostService) UpdatePost(ctx context.Context, id string, patch models.PostPatch, token string) (*models.Post, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	current, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	// токен проверяется только когда меняются метаданные
	if patch.ChangesMetadata(current) {
		principal, err := s.authz.Authenticate(token)
		if err != nil {
			return nil, err
		}
		if err := s.authz.AuthorizeUpdate(principal, current, patch); err != nil {
			s.logger.WarnContext(ctx, "post update denied",
				slog.String("post_id", id), slog.Any("error", err))
			return nil, err
		}
	}

	updated, err := s.posts.UpdatePost(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return updated, nil
}

// DeletePost removes a post owned by the caller.
// Order: authenticate, load, authorize, delete. Anonymous callers are
// rejected before the lookup, so they cannot tell which ids exist.
func (s *PostService) DeletePost(ctx context.Context, id, token string) error {
	principal, err := s.authz.Authenticate(token)
	if err != nil {
		return err
	}
	if !principal.Authenticated() {
		return auth.ErrMissingToken
	}

	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}

	if err := s.authz.AuthorizeDelete(principal, post); err != nil {
		s.logger.WarnContext(ctx, "post delete denied",
			slog.String("post_id", id), slog.Any("error", err))
		return err
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.InfoContext(ctx, "post deleted",
		slog.String("post_id", id),
		slog.String("user_id", principal.Identity.UserID))

	return nil
}

// Stats summarizes the whole catalog
func (s *PostService) Stats(ctx context.Context) (stats.Summary, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to list posts: %w", err)
	}
	return stats.Summarize(posts), nil
}

func validatePatch(patch models.PostPatch) error {
	if patch.Title != nil {
		if err := validation.ValidateTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.URL != nil {
		if err := validation.ValidateURL(*patch.URL); err != nil {
			return err
		}
	}
	if patch.Likes != nil {
		if err := validation.ValidateLikes(*patch.Likes); err != nil {
			return err
		}
	}
	return nil
}
