package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bloglist/internal/client/api"
	"github.com/iudanet/bloglist/internal/client/storage"
	"github.com/iudanet/bloglist/internal/server/jwt"
	"github.com/iudanet/bloglist/internal/validation"
	pkgapi "github.com/iudanet/bloglist/pkg/api"
)

// mockAuthStorage implements storage.AuthStorage for testing
type mockAuthStorage struct {
	data    *storage.AuthData
	saveErr error
}

func (m *mockAuthStorage) SaveAuth(_ context.Context, auth *storage.AuthData) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *auth
	m.data = &cp
	return nil
}

func (m *mockAuthStorage) GetAuth(_ context.Context) (*storage.AuthData, error) {
	if m.data == nil {
		return nil, storage.ErrAuthNotFound
	}
	cp := *m.data
	return &cp, nil
}

func (m *mockAuthStorage) DeleteAuth(_ context.Context) error {
	if m.data == nil {
		return storage.ErrAuthNotFound
	}
	m.data = nil
	return nil
}

func (m *mockAuthStorage) IsAuthenticated(_ context.Context) (bool, error) {
	return m.data != nil, nil
}

// newTestServer поднимает сервер с одним пользователем root/sekret
func newTestServer(t *testing.T, ttl time.Duration) (*httptest.Server, *int) {
	t.Helper()

	tokens := jwt.NewService([]byte("test-secret"), ttl)
	created := 0

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.CreateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username == "root" {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(pkgapi.ErrorResponse{Error: "Conflict", Message: "expected `username` to be unique"})
			return
		}
		created++
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(pkgapi.UserResponse{ID: "id-" + req.Username, Username: req.Username, Name: req.Name, Blogs: []string{}})
	})
	mux.HandleFunc("POST /api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "sekret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(pkgapi.ErrorResponse{Error: "Unauthorized", Message: "invalid username or password"})
			return
		}
		token, err := tokens.Generate("id-"+req.Username, req.Username)
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(pkgapi.LoginResponse{Token: token, Username: req.Username, Name: "Superuser"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &created
}

func TestSessionService_Login(t *testing.T) {
	srv, _ := newTestServer(t, time.Hour)
	store := &mockAuthStorage{}
	svc := NewService(api.NewClient(srv.URL), store, srv.URL)

	before := time.Now()
	authData, err := svc.Login(context.Background(), "root", "sekret")
	require.NoError(t, err)

	assert.Equal(t, "root", authData.Username)
	assert.Equal(t, "Superuser", authData.Name)
	assert.Equal(t, srv.URL, authData.Server)
	assert.NotEmpty(t, authData.Token)
	assert.GreaterOrEqual(t, authData.ExpiresAt, before.Add(time.Hour).Unix()-1)
	assert.Equal(t, authData, store.data)

	token, err := svc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, authData.Token, token)
}

func TestSessionService_Login_WrongPassword(t *testing.T) {
	srv, _ := newTestServer(t, time.Hour)
	store := &mockAuthStorage{}
	svc := NewService(api.NewClient(srv.URL), store, srv.URL)

	_, err := svc.Login(context.Background(), "root", "wrong")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
	assert.Nil(t, store.data)
}

func TestSessionService_Login_SaveError(t *testing.T) {
	srv, _ := newTestServer(t, time.Hour)
	saveErr := errors.New("disk full")
	svc := NewService(api.NewClient(srv.URL), &mockAuthStorage{saveErr: saveErr}, srv.URL)

	_, err := svc.Login(context.Background(), "root", "sekret")
	assert.ErrorIs(t, err, saveErr)
}

func TestSessionService_NoExpiryToken(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	svc := NewService(api.NewClient(srv.URL), &mockAuthStorage{}, srv.URL)

	authData, err := svc.Login(context.Background(), "root", "sekret")
	require.NoError(t, err)
	assert.Zero(t, authData.ExpiresAt)

	svc.now = func() time.Time { return time.Now().Add(100 * 365 * 24 * time.Hour) }
	_, err = svc.Token(context.Background())
	assert.NoError(t, err)
}

func TestSessionService_Register(t *testing.T) {
	tests := []struct {
		wantErr     error
		name        string
		username    string
		password    string
		wantStatus  int
		wantCreated int
	}{
		{
			name:        "success logs in",
			username:    "mluukkai",
			password:    "sekret",
			wantCreated: 1,
		},
		{
			name:     "short username rejected locally",
			username: "ml",
			password: "sekret",
			wantErr:  validation.ErrInvalid,
		},
		{
			name:     "short password rejected locally",
			username: "mluukkai",
			password: "se",
			wantErr:  validation.ErrInvalid,
		},
		{
			name:       "duplicate username",
			username:   "root",
			password:   "sekret",
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, created := newTestServer(t, time.Hour)
			store := &mockAuthStorage{}
			svc := NewService(api.NewClient(srv.URL), store, srv.URL)

			authData, err := svc.Register(context.Background(), tt.username, "Matti Luukkainen", tt.password)
			assert.Equal(t, tt.wantCreated, *created)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, store.data)
			case tt.wantStatus != 0:
				assert.Equal(t, tt.wantStatus, api.StatusCode(err))
				assert.Nil(t, store.data)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.username, authData.Username)
				assert.NotNil(t, store.data)
			}
		})
	}
}

func TestSessionService_LogoutAndStatus(t *testing.T) {
	store := &mockAuthStorage{}
	svc := NewService(api.NewClient("http://unused"), store, "http://unused")
	ctx := context.Background()

	_, err := svc.Status(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = svc.Token(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.ErrorIs(t, svc.Logout(ctx), ErrNotLoggedIn)

	store.data = &storage.AuthData{Username: "root", Token: "t", ExpiresAt: time.Now().Add(-time.Minute).Unix()}

	authData, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "root", authData.Username)

	_, err = svc.Token(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)

	require.NoError(t, svc.Logout(ctx))
	assert.Nil(t, store.data)
}
