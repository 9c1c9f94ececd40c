package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/bloglist/pkg/api"
)

// Error описывает ответ сервера с кодом ошибки
type Error struct {
	Message    string
	Field      string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// StatusCode возвращает HTTP статус из ошибки сервера или 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// CreateUser регистрирует нового пользователя
func (c *Client) CreateUser(ctx context.Context, req api.CreateUserRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/users", "", req, &resp); err != nil {
		return nil, fmt.Errorf("create user request failed: %w", err)
	}
	return &resp, nil
}

// ListUsers возвращает пользователей с их записями
func (c *Client) ListUsers(ctx context.Context) ([]api.UserResponse, error) {
	var resp []api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/users", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("list users request failed: %w", err)
	}
	return resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// ListPosts возвращает все записи каталога
func (c *Client) ListPosts(ctx context.Context) ([]api.PostResponse, error) {
	var resp []api.PostResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/blogs", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("list posts request failed: %w", err)
	}
	return resp, nil
}

// GetPost возвращает запись по ID
func (c *Client) GetPost(ctx context.Context, id string) (*api.PostResponse, error) {
	var resp api.PostResponse
	if err := c.doRequest(ctx, http.MethodGet, postPath(id), "", nil, &resp); err != nil {
		return nil, fmt.Errorf("get post request failed: %w", err)
	}
	return &resp, nil
}

// CreatePost создает запись. С пустым token запись будет без владельца.
func (c *Client) CreatePost(ctx context.Context, token string, req api.PostRequest) (*api.PostResponse, error) {
	var resp api.PostResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/blogs", token, req, &resp); err != nil {
		return nil, fmt.Errorf("create post request failed: %w", err)
	}
	return &resp, nil
}

// UpdatePost частично обновляет запись
func (c *Client) UpdatePost(ctx context.Context, token, id string, req api.UpdatePostRequest) (*api.PostResponse, error) {
	var resp api.PostResponse
	if err := c.doRequest(ctx, http.MethodPut, postPath(id), token, req, &resp); err != nil {
		return nil, fmt.Errorf("update post request failed: %w", err)
	}
	return &resp, nil
}

// DeletePost удаляет запись
func (c *Client) DeletePost(ctx context.Context, token, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, postPath(id), token, nil, nil); err != nil {
		return fmt.Errorf("delete post request failed: %w", err)
	}
	return nil
}

// Stats возвращает сводную статистику каталога
func (c *Client) Stats(ctx context.Context) (*api.StatsResponse, error) {
	var resp api.StatsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/blogs/stats", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("stats request failed: %w", err)
	}
	return &resp, nil
}

func postPath(id string) string {
	return "/api/v1/blogs/" + url.PathEscape(id)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Message = errResp.Message
			apiErr.Field = errResp.Field
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
