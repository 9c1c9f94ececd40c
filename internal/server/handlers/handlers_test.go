package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/bloglist/internal/server/auth"
	"github.com/iudanet/bloglist/internal/server/jwt"
	"github.com/iudanet/bloglist/internal/server/service"
	"github.com/iudanet/bloglist/internal/server/storage/memory"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// testEnv связывает handlers с чистым in-memory хранилищем
type testEnv struct {
	store *memory.Storage
	posts *PostHandler
	users *UserHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := setupTestLogger()
	store := memory.New()
	creds := auth.NewCredentials(store, jwt.NewService([]byte("test-secret"), time.Hour), bcrypt.MinCost)
	authz := auth.NewAuthorizer(creds)

	return &testEnv{
		store: store,
		posts: NewPostHandler(logger, service.NewPostService(logger, store, authz)),
		users: NewUserHandler(logger, service.NewUserService(logger, store, store, creds)),
	}
}

// newJSONRequest создает запрос с JSON телом и токеном в контексте
func newJSONRequest(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req = req.WithContext(WithToken(req.Context(), token))
	}
	return req
}

// serve вызывает handler и декодирует JSON ответ в out (если out != nil)
func serve(t *testing.T, h http.HandlerFunc, req *http.Request, out any) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	h(w, req)

	if out != nil && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

// register регистрирует пользователя и возвращает токен
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()

	req := newJSONRequest(t, http.MethodPost, "/api/v1/users",
		map[string]string{"username": username, "name": "Test " + username, "password": "sekret"}, "")
	w := serve(t, e.users.Create, req, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	req = newJSONRequest(t, http.MethodPost, "/api/v1/login",
		map[string]string{"username": username, "password": "sekret"}, "")
	w = serve(t, e.users.Login, req, &login)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return login.Token
}
