package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter ограничивает число запросов с одного ключа (обычно IP адреса)
// в фиксированном временном окне
type RateLimiter struct {
	buckets  map[string]*bucket
	now      func() time.Time
	cleanupC chan struct{}
	stopOnce sync.Once
	rate     int
	window   time.Duration
	mu       sync.Mutex
}

// bucket хранит оставшиеся попытки для конкретного ключа
type bucket struct {
	windowStart time.Time
	tokens      int
}

// NewRateLimiter создает новый rate limiter
// rate - максимальное количество запросов в окне
// window - длина окна (например, 1 минута)
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		now:      time.Now,
		rate:     rate,
		window:   window,
		cleanupC: make(chan struct{}),
	}

	// Запускаем периодическую очистку старых buckets
	go rl.cleanup()

	return rl
}

// cleanup периодически удаляет неактивные buckets для экономии памяти
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldBuckets()
		case <-rl.cleanupC:
			return
		}
	}
}

// cleanupOldBuckets удаляет buckets, окно которых закончилось давно
func (rl *RateLimiter) cleanupOldBuckets() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window*2 {
			delete(rl.buckets, key)
		}
	}
}

// Stop останавливает cleanup goroutine. Повторный вызов безопасен.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.cleanupC) })
}

// Allow проверяет, разрешен ли запрос для ключа.
// При отказе возвращает время до начала следующего окна.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.buckets[key]
	if !exists || now.Sub(b.windowStart) >= rl.window {
		b = &bucket{windowStart: now, tokens: rl.rate}
		rl.buckets[key] = b
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, b.windowStart.Add(rl.window).Sub(now)
}

// RateLimitMiddleware создает middleware для ограничения частоты запросов
// Используется для /login и регистрации, чтобы затруднить перебор паролей
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			allowed, retryAfter := limiter.Allow(key)
			if !allowed {
				logger.WarnContext(r.Context(), "Rate limit exceeded",
					"ip", key,
					"method", r.Method,
					"path", r.URL.Path,
				)

				seconds := int(retryAfter.Round(time.Second).Seconds())
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP извлекает IP адрес клиента из запроса
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси
func getClientIP(r *http.Request) string {
	// Берем первый IP из списка (реальный клиент)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// порт отбрасываем: у одного клиента он меняется от соединения к соединению
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
