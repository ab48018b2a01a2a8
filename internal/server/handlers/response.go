package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/dashsync/pkg/api"
)

// writeJSON сериализует v в тело ответа с указанным статусом
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError отправляет ответ с ошибкой в формате api.ErrorResponse
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, api.ErrorResponse{Error: message})
}
