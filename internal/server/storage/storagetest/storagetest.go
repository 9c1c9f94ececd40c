// Package storagetest holds a behaviour suite shared by every storage backend.
package storagetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bloglist/internal/models"
	"github.com/iudanet/bloglist/internal/server/storage"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

// Run executes the whole suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateUser", func(t *testing.T) { testCreateUser(t, newStore(t)) })
	t.Run("CreateUser_Duplicate", func(t *testing.T) { testCreateUserDuplicate(t, newStore(t)) })
	t.Run("GetUser", func(t *testing.T) { testGetUser(t, newStore(t)) })
	t.Run("ListUsers", func(t *testing.T) { testListUsers(t, newStore(t)) })
	t.Run("CreatePost", func(t *testing.T) { testCreatePost(t, newStore(t)) })
	t.Run("ListPosts_Order", func(t *testing.T) { testListPostsOrder(t, newStore(t)) })
	t.Run("ListPostsByOwner", func(t *testing.T) { testListPostsByOwner(t, newStore(t)) })
	t.Run("UpdatePost", func(t *testing.T) { testUpdatePost(t, newStore(t)) })
	t.Run("DeletePost", func(t *testing.T) { testDeletePost(t, newStore(t)) })
	t.Run("ConcurrentLikes", func(t *testing.T) { testConcurrentLikes(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { testPing(t, newStore(t)) })
}

// NewUser builds a user with a random ID
func NewUser(username string) *models.User {
	return &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Name:         "Test " + username,
		PasswordHash: "hash-" + username,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

// NewPost builds a post with a random ID and optional owner
func NewPost(title string, likes int, owner *string) *models.Post {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Author:    "Robert C. Martin",
		URL:       "http://example.com/" + title,
		Likes:     likes,
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func closeStore(t *testing.T, s storage.Store) {
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})
}

func testCreateUser(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	user := NewUser("root")
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Username, got.Username)
	assert.Equal(t, user.Name, got.Name)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
}

func testCreateUserDuplicate(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, NewUser("root")))
	err := s.CreateUser(ctx, NewUser("root"))
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)

	// username регистрозависимый
	require.NoError(t, s.CreateUser(ctx, NewUser("Root")))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func testGetUser(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	user := NewUser("findme")
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByUsername(ctx, "findme")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.GetUserByUsername(ctx, "FINDME")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func testListUsers(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, s.CreateUser(ctx, NewUser(name)))
	}

	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "first", users[0].Username)
	assert.Equal(t, "third", users[2].Username)
}

func testCreatePost(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	owner := NewUser("owner")
	require.NoError(t, s.CreateUser(ctx, owner))

	owned := NewPost("owned", 3, &owner.ID)
	anonymous := NewPost("anonymous", 0, nil)
	require.NoError(t, s.CreatePost(ctx, owned))
	require.NoError(t, s.CreatePost(ctx, anonymous))

	got, err := s.GetPost(ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, owned.Title, got.Title)
	assert.Equal(t, owned.Author, got.Author)
	assert.Equal(t, owned.URL, got.URL)
	assert.Equal(t, 3, got.Likes)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, owner.ID, *got.OwnerID)

	got, err = s.GetPost(ctx, anonymous.ID)
	require.NoError(t, err)
	assert.Nil(t, got.OwnerID)

	_, err = s.GetPost(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func testListPostsOrder(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	titles := []string{"a", "b", "c", "d"}
	for i, title := range titles {
		require.NoError(t, s.CreatePost(ctx, NewPost(title, i, nil)))
	}

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, len(titles))
	for i, p := range posts {
		assert.Equal(t, titles[i], p.Title)
	}
}

func testListPostsByOwner(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	alice := NewUser("alice")
	bob := NewUser("bob")
	require.NoError(t, s.CreateUser(ctx, alice))
	require.NoError(t, s.CreateUser(ctx, bob))

	require.NoError(t, s.CreatePost(ctx, NewPost("a1", 0, &alice.ID)))
	require.NoError(t, s.CreatePost(ctx, NewPost("b1", 0, &bob.ID)))
	require.NoError(t, s.CreatePost(ctx, NewPost("a2", 0, &alice.ID)))
	require.NoError(t, s.CreatePost(ctx, NewPost("none", 0, nil)))

	posts, err := s.ListPostsByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "a1", posts[0].Title)
	assert.Equal(t, "a2", posts[1].Title)

	posts, err = s.ListPostsByOwner(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func testUpdatePost(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	post := NewPost("update-me", 7, nil)
	require.NoError(t, s.CreatePost(ctx, post))

	likes := 17
	updated, err := s.UpdatePost(ctx, post.ID, models.PostPatch{Likes: &likes})
	require.NoError(t, err)
	assert.Equal(t, 17, updated.Likes)
	assert.Equal(t, post.Title, updated.Title)
	assert.Equal(t, post.ID, updated.ID)

	title := "renamed"
	updated, err = s.UpdatePost(ctx, post.ID, models.PostPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, 17, updated.Likes)

	got, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, 17, got.Likes)

	_, err = s.UpdatePost(ctx, uuid.New().String(), models.PostPatch{Likes: &likes})
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func testDeletePost(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	keep := NewPost("keep", 0, nil)
	drop := NewPost("drop", 0, nil)
	require.NoError(t, s.CreatePost(ctx, keep))
	require.NoError(t, s.CreatePost(ctx, drop))

	require.NoError(t, s.DeletePost(ctx, drop.ID))

	// повторное удаление — not found
	assert.ErrorIs(t, s.DeletePost(ctx, drop.ID), storage.ErrPostNotFound)

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, keep.ID, posts[0].ID)
}

func testConcurrentLikes(t *testing.T, s storage.Store) {
	closeStore(t, s)
	ctx := context.Background()

	posts := make([]*models.Post, 4)
	for i := range posts {
		posts[i] = NewPost("concurrent", 0, nil)
		require.NoError(t, s.CreatePost(ctx, posts[i]))
	}

	var wg sync.WaitGroup
	for i, p := range posts {
		wg.Add(1)
		go func(id string, likes int) {
			defer wg.Done()
			_, err := s.UpdatePost(ctx, id, models.PostPatch{Likes: &likes})
			assert.NoError(t, err)
		}(p.ID, i+1)
	}
	wg.Wait()

	for i, p := range posts {
		got, err := s.GetPost(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, i+1, got.Likes)
	}
}

func testPing(t *testing.T, s storage.Store) {
	closeStore(t, s)
	assert.NoError(t, s.Ping(context.Background()))
}
