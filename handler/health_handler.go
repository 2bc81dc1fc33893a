package handler

import (
	"database/sql"
	"net/http"
	"sentinel-api/repository"
)

// HealthHandler reports service health. Blocklist connectivity is the
// critical signal: without it every verification fails closed, so a
// blocklist outage degrades the whole service.
type HealthHandler struct {
	db        *sql.DB
	blocklist repository.IBlocklistRepository
}

func NewHealthHandler(db *sql.DB, blocklist repository.IBlocklistRepository) *HealthHandler {
	return &HealthHandler{db: db, blocklist: blocklist}
}

// Check godoc
// @Summary      Show the status of server
// @Description  get the status of server and its backing stores
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{
		"status":          "healthy",
		"database":        "connected",
		"redis_blacklist": "connected",
		"version":         "1.0.0",
	}

	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			body["status"] = "degraded"
			body["database"] = "error: " + err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	if err := h.blocklist.Ping(r.Context()); err != nil {
		body["status"] = "degraded"
		body["redis_blacklist"] = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, body)
}
