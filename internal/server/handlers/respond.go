package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/iudanet/bloglist/internal/server/auth"
	"github.com/iudanet/bloglist/internal/server/storage"
	"github.com/iudanet/bloglist/internal/validation"
	"github.com/iudanet/bloglist/pkg/api"
)

// maxBodySize ограничивает размер тела запроса
const maxBodySize = 1 << 20

// decodeJSON читает тело запроса в dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}

// writeError переводит доменную ошибку в HTTP статус.
// Неизвестные ошибки логируются и отдаются клиенту как 500 без деталей.
func writeError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		sendJSON(logger, w, api.ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: verr.Message,
			Field:   verr.Field,
		}, http.StatusBadRequest)
	case errors.Is(err, storage.ErrUserAlreadyExists):
		sendError(logger, w, storage.ErrUserAlreadyExists.Error(), http.StatusConflict)
	case errors.Is(err, auth.ErrMissingToken):
		sendError(logger, w, "token missing", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrInvalidToken):
		sendError(logger, w, "token invalid", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrInvalidCredentials):
		sendError(logger, w, "invalid username or password", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrForbidden):
		sendError(logger, w, auth.ErrForbidden.Error(), http.StatusForbidden)
	case errors.Is(err, storage.ErrPostNotFound):
		sendError(logger, w, "blog not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrUserNotFound):
		sendError(logger, w, "user not found", http.StatusNotFound)
	default:
		logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
		sendError(logger, w, "internal server error", http.StatusInternalServerError)
	}
}
