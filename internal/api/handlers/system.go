package handlers

import (
	"database/sql"
	"net/http"

	"github.com/stockguardian/stock-guardian-backend/internal/database"
)

// Version is the application version, set at build time via -ldflags.
var Version = "dev"

// SystemHandler handles health and version requests
type SystemHandler struct {
	db *sql.DB
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *sql.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health reports whether the service and its database are reachable.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := database.HealthCheck(h.db); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unreachable", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Version reports the build version.
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"version": Version})
}
