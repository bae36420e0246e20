package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockops/backoffice/internal/infrastructure/persistence"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db        *persistence.Database
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, startedAt: time.Now()}
}

// RegisterRoutes registers health routes
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Live)
	rg.GET("/health/ready", h.Ready)
}

// Live reports process liveness
func (h *HealthHandler) Live(c *gin.Context) {
	h.Success(c, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready reports readiness including database connectivity
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}
	stats, err := h.db.Stats()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"status":   "ok",
		"database": stats,
	})
}
