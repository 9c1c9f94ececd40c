package auth

import (
	"context"

	"github.com/iudanet/bloglist/internal/client/storage"
)

//go:generate moq -out service_mock.go . Service

// Service defines the client-side session operations used by the CLI
type Service interface {
	// Register создает пользователя на сервере и сразу открывает сессию
	Register(ctx context.Context, username, name, password string) (*storage.AuthData, error)

	// Login выполняет аутентификацию и сохраняет токен локально
	Login(ctx context.Context, username, password string) (*storage.AuthData, error)

	// Logout удаляет локальную сессию. Сервер токены не отзывает.
	Logout(ctx context.Context) error

	// Token возвращает действующий токен текущей сессии
	Token(ctx context.Context) (string, error)

	// Status возвращает текущую сессию, если она есть
	Status(ctx context.Context) (*storage.AuthData, error)
}
