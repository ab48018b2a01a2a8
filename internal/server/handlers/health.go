package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/dashsync/pkg/api"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger *slog.Logger
	db     Pinger
	now    func() time.Time
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, db Pinger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		db:     db,
		now:    time.Now,
	}
}

// Health обрабатывает GET /api/health.
// Клиенты используют его как проверку связи, поэтому при недоступной БД отвечает 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status: "ok",
		Time:   h.now().UnixMilli(),
	}

	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Error("Health check failed", "error", err)
		resp.Status = "unavailable"
		writeJSON(w, h.logger, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
