// Package memory provides an in-process storage backend.
// Used by tests and by the "memory" storage mode; data is lost on exit.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iudanet/bloglist/internal/models"
	"github.com/iudanet/bloglist/internal/server/storage"
)

// Storage keeps users and posts in maps guarded by a RWMutex.
// Slices of ids preserve insertion order.
type Storage struct {
	users     map[string]*models.User // id -> user
	usernames map[string]string       // username -> id
	posts     map[string]*models.Post // id -> post
	userOrder []string
	postOrder []string
	mu        sync.RWMutex
}

var _ storage.Store = (*Storage)(nil)

// New creates an empty storage
func New() *Storage {
	return &Storage{
		users:     make(map[string]*models.User),
		usernames: make(map[string]string),
		posts:     make(map[string]*models.Post),
	}
}

// Ping always succeeds
func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *Storage) Close() error {
	return nil
}

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernames[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}

	stored := *user
	s.users[user.ID] = &stored
	s.usernames[user.Username] = user.ID
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// ListUsers returns all users in creation order
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		u := *s.users[id]
		users = append(users, &u)
	}
	return users, nil
}

// CreatePost inserts a post
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[post.ID] = clonePost(post)
	s.postOrder = append(s.postOrder, post.ID)
	return nil
}

// ListPosts returns all posts in insertion order
func (s *Storage) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.filterPosts(func(*models.Post) bool { return true }), nil
}

// ListPostsByOwner returns posts owned by userID
func (s *Storage) ListPostsByOwner(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.filterPosts(func(p *models.Post) bool { return p.OwnedBy(userID) }), nil
}

// GetPost retrieves a post by ID
func (s *Storage) GetPost(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrPostNotFound
	}
	return clonePost(post), nil
}

// UpdatePost applies patch under the write lock
func (s *Storage) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrPostNotFound
	}

	patch.Apply(post)
	post.UpdatedAt = time.Now().UTC()
	return clonePost(post), nil
}

// DeletePost removes a post
func (s *Storage) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return storage.ErrPostNotFound
	}

	delete(s.posts, id)
	for i, pid := range s.postOrder {
		if pid == id {
			s.postOrder = append(s.postOrder[:i], s.postOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Storage) filterPosts(keep func(*models.Post) bool) []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.Post, 0, len(s.postOrder))
	for _, id := range s.postOrder {
		p := s.posts[id]
		if keep(p) {
			posts = append(posts, clonePost(p))
		}
	}
	return posts
}

// clonePost копирует запись вместе с указателем на владельца,
// чтобы вызывающий код не мог изменить хранимое состояние
func clonePost(p *models.Post) *models.Post {
	c := *p
	if p.OwnerID != nil {
		owner := *p.OwnerID
		c.OwnerID = &owner
	}
	return &c
}
