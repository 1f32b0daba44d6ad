package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves liveness and build metadata endpoints. These sit
// outside the tenant-scoped API group; no tenant key is required.
type SystemHandler struct {
	BaseHandler
	appName   string
	env       string
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName, env string) *SystemHandler {
	return &SystemHandler{
		appName:   appName,
		env:       env,
		startedAt: time.Now(),
	}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"env":     h.env,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": "1",
	})
}

// RegisterRootRoutes registers the system endpoints on the engine root
func (h *SystemHandler) RegisterRootRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
}
