package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/bloglist/pkg/api"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	store   Pinger
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, store Pinger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		store:   store,
		version: version,
	}
}

// Health обрабатывает GET /api/v1/health
// Health check endpoint для мониторинга
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Storage: "ok",
	}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "storage ping failed", slog.Any("error", err))
		resp.Status = "degraded"
		resp.Storage = "unavailable"
		sendJSON(h.logger, w, resp, http.StatusServiceUnavailable)
		return
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
