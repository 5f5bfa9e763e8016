// Package health reports service liveness, including persistence reachability.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/enrolld/enrolld/internal/platform/httpx"
)

// Pinger checks that the persistence store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the health endpoint.
type Handler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(db Pinger, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{db: db, logger: logger}
}

// Check handles GET /health.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Error("health check failed", slog.Any("error", err))
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"detail": "Database connection failed",
		})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}
