package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aparnaappu2002/planzo-backend/pkg/mongodb"
	pkgredis "github.com/aparnaappu2002/planzo-backend/pkg/redis"
)

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	db    *mongodb.DB
	cache *pkgredis.Client
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *mongodb.DB, cache *pkgredis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "planzo-backend",
	})
}

// Ready checks the document store and the cache before declaring the
// service ready for traffic.
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	body := gin.H{
		"status":   "ready",
		"service":  "planzo-backend",
		"database": "connected",
		"cache":    "connected",
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		body["status"] = "not_ready"
		body["database"] = "disconnected"
		body["error"] = err.Error()
		status = http.StatusServiceUnavailable
	} else if err := h.cache.Ping(ctx); err != nil {
		body["status"] = "not_ready"
		body["cache"] = "disconnected"
		body["error"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, body)
}
