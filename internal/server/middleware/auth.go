package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/bloglist/internal/server/handlers"
)

// ExtractToken достает токен сессии из заголовка Authorization
// Поддерживаются форматы "Bearer <token>" и голый токен без схемы.
// Пустой заголовок допустим: запрос считается анонимным.
func ExtractToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", true
	}

	parts := strings.Fields(header)
	switch len(parts) {
	case 1:
		// голый токен от старых клиентов
		if strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[0], true
	case 2:
		if !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[1], true
	default:
		return "", false
	}
}

// TokenMiddleware создает middleware, который кладет токен сессии в контекст
// Проверка токена выполняется дальше, в сервисах: анонимные запросы разрешены
// для части операций.
func TokenMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := ExtractToken(r.Header.Get("Authorization"))
			if !ok {
				logger.WarnContext(r.Context(), "Invalid Authorization header format",
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeJSONError(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}

			if token != "" {
				r = r.WithContext(handlers.WithToken(r.Context(), token))
			}

			next.ServeHTTP(w, r)
		})
	}
}
