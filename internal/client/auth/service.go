package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/bloglist/internal/client/api"
	"github.com/iudanet/bloglist/internal/client/storage"
	"github.com/iudanet/bloglist/internal/validation"
	pkgapi "github.com/iudanet/bloglist/pkg/api"
)

var (
	// ErrNotLoggedIn возвращается, когда локальной сессии нет
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrSessionExpired возвращается, когда срок токена сессии истек
	ErrSessionExpired = errors.New("session expired, please login again")
)

// SessionService хранит сессию CLI в локальном хранилище
type SessionService struct {
	apiClient *api.Client
	store     storage.AuthStorage
	now       func() time.Time
	server    string
}

// Compile-time check that SessionService implements Service
var _ Service = (*SessionService)(nil)

// NewService создает новый сервис авторизации.
// server записывается в сессию, чтобы status показывал, куда выполнен вход.
func NewService(apiClient *api.Client, store storage.AuthStorage, server string) *SessionService {
	return &SessionService{
		apiClient: apiClient,
		store:     store,
		now:       time.Now,
		server:    server,
	}
}

// Register регистрирует нового пользователя и выполняет вход
func (s *SessionService) Register(ctx context.Context, username, name, password string) (*storage.AuthData, error) {
	// Проверяем локально, чтобы не гонять заведомо плохой запрос
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	if _, err := s.apiClient.CreateUser(ctx, pkgapi.CreateUserRequest{
		Username: username,
		Name:     name,
		Password: password,
	}); err != nil {
		return nil, err
	}

	return s.Login(ctx, username, password)
}

// Login выполняет аутентификацию пользователя и сохраняет сессию
func (s *SessionService) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	expiresAt, err := tokenExpiry(resp.Token)
	if err != nil {
		return nil, err
	}

	authData := &storage.AuthData{
		Username:  resp.Username,
		Name:      resp.Name,
		Token:     resp.Token,
		Server:    s.server,
		ExpiresAt: expiresAt,
	}
	if err := s.store.SaveAuth(ctx, authData); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return authData, nil
}

// Logout удаляет локальную сессию
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return ErrNotLoggedIn
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Token возвращает токен текущей сессии
func (s *SessionService) Token(ctx context.Context) (string, error) {
	authData, err := s.Status(ctx)
	if err != nil {
		return "", err
	}
	if authData.Expired(s.now()) {
		return "", ErrSessionExpired
	}
	return authData.Token, nil
}

// Status возвращает текущую сессию
func (s *SessionService) Status(ctx context.Context) (*storage.AuthData, error) {
	authData, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return authData, nil
}

// tokenExpiry читает exp из токена без проверки подписи.
// Подпись проверяет сервер, клиенту нужен только срок жизни.
func tokenExpiry(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return 0, nil
	}
	return claims.ExpiresAt.Unix(), nil
}
