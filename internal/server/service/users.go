package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/bloglist/internal/models"
	"github.com/iudanet/bloglist/internal/server/auth"
	"github.com/iudanet/bloglist/internal/server/storage"
	"github.com/iudanet/bloglist/internal/validation"
)

// UserWithPosts is a user together with the ids of the posts they own.
// Post ids are derived from the post store on every read.
type UserWithPosts struct {
	User    *models.User
	PostIDs []string
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token    string
	Username string
	Name     string
}

// UserService handles registration, listing and login
type UserService struct {
	logger *slog.Logger
	users  storage.UserStorage
	posts  storage.PostStorage
	creds  *auth.Credentials
	now    func() time.Time
}

// NewUserService creates a new user service
func NewUserService(logger *slog.Logger, users storage.UserStorage, posts storage.PostStorage, creds *auth.Credentials) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
		posts:  posts,
		creds:  creds,
		now:    time.Now,
	}
}

// CreateUser validates and registers a new user. A taken username yields
// storage.ErrUserAlreadyExists.
func (s *UserService) CreateUser(ctx context.Context, username, name, password string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			s.logger.WarnContext(ctx, "user already exists", slog.String("username", username))
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", username),
		slog.String("user_id", user.ID))

	return user, nil
}

// ListUsers returns all users in registration order with their owned post ids
func (s *UserService) ListUsers(ctx context.Context) ([]UserWithPosts, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	// один проход по постам вместо запроса на каждого пользователя
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	owned := make(map[string][]string, len(users))
	for _, p := range posts {
		if p.OwnerID != nil {
			owned[*p.OwnerID] = append(owned[*p.OwnerID], p.ID)
		}
	}

	result := make([]UserWithPosts, 0, len(users))
	for _, u := range users {
		ids := owned[u.ID]
		if ids == nil {
			ids = []string{}
		}
		result = append(result, UserWithPosts{User: u, PostIDs: ids})
	}

	return result, nil
}

// Login verifies credentials and issues a session token
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	identity, err := s.creds.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.WarnContext(ctx, "login failed", slog.String("username", username))
		}
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.creds.IssueToken(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	return &LoginResult{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}
