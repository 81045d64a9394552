package handlers

import (
	"net/http"

	"meetsync/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Monitor *utils.HealthMonitor
}

func NewHealthHandler(monitor *utils.HealthMonitor) *HealthHandler {
	return &HealthHandler{Monitor: monitor}
}

// HealthCheckHandler handles GET /health. A down cache degrades the service
// but suggestions still work without it.
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	status := h.Monitor.Status()
	state := "ok"
	if status.Cache == utils.HealthDown {
		state = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": state, "cache": status.Cache, "checkedAt": status.CheckedAt})
}
