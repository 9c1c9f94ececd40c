package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bloglist/internal/server/auth"
	"github.com/iudanet/bloglist/internal/server/storage"
	"github.com/iudanet/bloglist/internal/validation"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("stores bcrypt hash", func(t *testing.T) {
		f := newFixture(t)

		user, err := f.users.CreateUser(ctx, "mluukkai", "Matti Luukkainen", "salainen")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "salainen", user.PasswordHash)

		stored, err := f.store.GetUserByUsername(ctx, "mluukkai")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
		assert.Equal(t, "Matti Luukkainen", stored.Name)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.users.CreateUser(ctx, "root", "Superuser", "sekret")
		require.NoError(t, err)
		before := f.userCount(t)

		_, err = f.users.CreateUser(ctx, "root", "Superuser", "salainen")
		require.ErrorIs(t, err, storage.ErrUserAlreadyExists)
		assert.Contains(t, err.Error(), "expected `username` to be unique")
		assert.Equal(t, before, f.userCount(t))
	})

	tests := []struct {
		name     string
		username string
		password string
		field    string
		message  string
	}{
		{name: "short username", username: "ro", password: "sekret", field: "username", message: "username must at least 3 characters long"},
		{name: "short password", username: "root", password: "se", field: "password", message: "password must at least 3 characters long"},
		{name: "empty password", username: "root", password: "", field: "password", message: "password is required"},
		{name: "password over bcrypt limit", username: "mluukkai", password: strings.Repeat("a", 80), field: "password", message: "password must not exceed 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.users.CreateUser(ctx, tt.username, "", tt.password)
			require.ErrorIs(t, err, validation.ErrInvalid)
			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, 0, f.userCount(t))
		})
	}
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rootToken := f.login(t, "root")
	f.login(t, "mluukkai")

	posts := seedPosts(t, f, rootToken)
	_, err := f.posts.CreatePost(ctx, PostInput{Title: "Anonymous", URL: "http://anon"}, "")
	require.NoError(t, err)

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "root", users[0].User.Username)
	require.Len(t, users[0].PostIDs, len(posts))
	for i, p := range posts {
		assert.Equal(t, p.ID, users[0].PostIDs[i])
	}

	assert.Equal(t, "mluukkai", users[1].User.Username)
	assert.NotNil(t, users[1].PostIDs)
	assert.Empty(t, users[1].PostIDs)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.CreateUser(ctx, "root", "Superuser", "sekret")
	require.NoError(t, err)

	res, err := f.users.Login(ctx, "root", "sekret")
	require.NoError(t, err)
	assert.Equal(t, "root", res.Username)
	assert.Equal(t, "Superuser", res.Name)

	identity, err := f.creds.ResolveToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "root", identity.Username)

	_, err = f.users.Login(ctx, "root", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.users.Login(ctx, "nobody", "sekret")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
