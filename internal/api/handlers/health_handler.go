package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/api/types"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db      *gorm.DB
	version string
	started time.Time
}

func NewHealthHandler(db *gorm.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, started: time.Now()}
}

// Healthz reports process liveness only.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]any{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// Readyz additionally pings the database.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, types.Err("database unavailable"))
		return
	}
	respondOK(w, map[string]any{"status": "ready"})
}
