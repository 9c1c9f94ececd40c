package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bloglist/internal/config"
	"github.com/iudanet/bloglist/internal/server/storage/memory"
	"github.com/iudanet/bloglist/pkg/api"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage = config.StorageMemory
	cfg.JWTSecret = "test-secret"
	cfg.BcryptCost = 4
	cfg.LoginRate = 5
	cfg.Address = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	return &cfg
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(testConfig(), logger, memory.New(), "test")
	t.Cleanup(srv.stopLimiters)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// call выполняет JSON запрос и декодирует ответ в out
func call(t *testing.T, ts *httptest.Server, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, resp.Body.Close())
	}()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func registerAndLogin(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()

	resp := call(t, ts, http.MethodPost, "/api/v1/users", "",
		api.CreateUserRequest{Username: username, Name: username, Password: "sekret"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var login api.LoginResponse
	resp = call(t, ts, http.MethodPost, "/api/v1/login", "",
		api.LoginRequest{Username: username, Password: "sekret"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return login.Token
}

func TestServer_BlogLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rootToken := registerAndLogin(t, ts, "root")
	otherToken := registerAndLogin(t, ts, "mluukkai")

	var created api.PostResponse
	resp := call(t, ts, http.MethodPost, "/api/v1/blogs", rootToken,
		api.PostRequest{Title: "Type wars", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, created.User)
	assert.Equal(t, 0, created.Likes)

	var list []api.PostResponse
	resp = call(t, ts, http.MethodGet, "/api/v1/blogs", "", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)

	var got api.PostResponse
	resp = call(t, ts, http.MethodGet, "/api/v1/blogs/"+created.ID, "", nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, got.ID)

	// лайк без токена
	likes := 7
	var liked api.PostResponse
	resp = call(t, ts, http.MethodPut, "/api/v1/blogs/"+created.ID, "", api.UpdatePostRequest{Likes: &likes}, &liked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, liked.Likes)

	var stats api.StatsResponse
	resp = call(t, ts, http.MethodGet, "/api/v1/blogs/stats", "", nil, &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, stats.TotalLikes)
	require.NotNil(t, stats.Favorite)
	assert.Equal(t, "Type wars", stats.Favorite.Title)

	resp = call(t, ts, http.MethodDelete, "/api/v1/blogs/"+created.ID, otherToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, ts, http.MethodDelete, "/api/v1/blogs/"+created.ID, "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, ts, http.MethodDelete, "/api/v1/blogs/"+created.ID, rootToken, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, ts, http.MethodGet, "/api/v1/blogs/"+created.ID, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var users []api.UserResponse
	resp = call(t, ts, http.MethodGet, "/api/v1/users", "", nil, &users)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, users, 2)
	assert.Empty(t, users[0].Blogs)
}

func TestServer_BareTokenHeader(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "root")

	body, err := json.Marshal(api.PostRequest{Title: "bare", URL: "http://bare"})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/blogs", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", token)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var post api.PostResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotNil(t, post.User)
}

func TestServer_LoginRateLimit(t *testing.T) {
	ts := newTestServer(t)

	for i := 0; i < 5; i++ {
		resp := call(t, ts, http.MethodPost, "/api/v1/login", "", api.LoginRequest{Username: "ghost", Password: "nope"}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp := call(t, ts, http.MethodPost, "/api/v1/login", "", api.LoginRequest{Username: "ghost", Password: "nope"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestServer_HealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	var health api.HealthResponse
	resp := call(t, ts, http.MethodGet, "/api/v1/health", "", nil, &health)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)

	call(t, ts, http.MethodGet, "/api/v1/blogs", "", nil, nil)

	// кривой заголовок отклоняется до маршрутизации, но попадает в метрики
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/blogs", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Basic a b")
	rejected, err := ts.Client().Do(req)
	require.NoError(t, err)
	require.NoError(t, rejected.Body.Close())
	assert.Equal(t, http.StatusUnauthorized, rejected.StatusCode)

	metricsResp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()

	body, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
	assert.Contains(t, string(body), `bloglist_http_requests_total{method="GET",route="GET /api/v1/blogs",status="200"} 1`)
	assert.Contains(t, string(body), `bloglist_http_requests_total{method="GET",route="GET /api/v1/blogs",status="401"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServer_GracefulShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(testConfig(), logger, memory.New(), "test")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() { errC <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-errC:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
