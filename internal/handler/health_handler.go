package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/shopupgh/shopup-api/internal/utils"
)

// HealthHandler reports service health.
type HealthHandler struct {
	db      *sqlx.DB
	started time.Time
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// GetHealth handles GET /v1/health.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		utils.Error(c, 503, "UNHEALTHY", "Database unreachable")
		return
	}

	utils.Success(c, 200, "Health check", gin.H{
		"database": "ok",
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	})
}
