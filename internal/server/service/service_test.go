package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/bloglist/internal/server/auth"
	"github.com/iudanet/bloglist/internal/server/jwt"
	"github.com/iudanet/bloglist/internal/server/storage/memory"
)

// fixture собирает сервисы поверх чистого in-memory хранилища.
// Каждый тест получает свое хранилище, общего состояния нет.
type fixture struct {
	store *memory.Storage
	creds *auth.Credentials
	posts *PostService
	users *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	creds := auth.NewCredentials(store, jwt.NewService([]byte("test-secret"), time.Hour), bcrypt.MinCost)
	authz := auth.NewAuthorizer(creds)

	return &fixture{
		store: store,
		creds: creds,
		posts: NewPostService(logger, store, authz),
		users: NewUserService(logger, store, store, creds),
	}
}

// login регистрирует пользователя и возвращает его токен
func (f *fixture) login(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, username, "Test "+username, "sekret")
	require.NoError(t, err)

	res, err := f.users.Login(ctx, username, "sekret")
	require.NoError(t, err)
	return res.Token
}

func (f *fixture) postCount(t *testing.T) int {
	t.Helper()
	posts, err := f.store.ListPosts(context.Background())
	require.NoError(t, err)
	return len(posts)
}

func (f *fixture) userCount(t *testing.T) int {
	t.Helper()
	users, err := f.store.ListUsers(context.Background())
	require.NoError(t, err)
	return len(users)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
