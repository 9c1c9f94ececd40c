package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

const (
	// TokenKey ключ для хранения токена сессии в контексте
	TokenKey contextKey = "token"
	// RequestIDKey ключ для хранения ID запроса в контексте
	RequestIDKey contextKey = "request_id"
)

// WithToken кладет токен сессии в контекст
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

// GetToken извлекает токен сессии из контекста.
// Пустая строка означает анонимный запрос.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

// WithRequestID кладет ID запроса в контекст
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID извлекает ID запроса из контекста
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok
}
