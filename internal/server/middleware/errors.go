package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iudanet/bloglist/pkg/api"
)

// writeJSONError отправляет ответ с ошибкой в том же формате, что и handlers
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
