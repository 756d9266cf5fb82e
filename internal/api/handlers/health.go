// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dataplug/copilot-service/internal/api/dto"
	"github.com/dataplug/copilot-service/internal/core/sessionstore"
	"github.com/dataplug/copilot-service/internal/core/vectorstore"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	sessions sessionstore.Store
	vectors  vectorstore.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(sessions sessionstore.Store, vectors vectorstore.Store) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		vectors:  vectors,
	}
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Returns the overall health status and component statuses
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	components := make(map[string]string)
	healthy := true

	if err := h.sessions.Ping(c.Request.Context()); err != nil {
		components["sessionstore"] = "unhealthy"
		healthy = false
	} else {
		components["sessionstore"] = "healthy"
	}

	if err := h.vectors.Ping(c.Request.Context()); err != nil {
		components["vectorstore"] = "unhealthy"
		healthy = false
	} else {
		components["vectorstore"] = "healthy"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.HealthResponse{
		Status:     status,
		Components: components,
	})
}

// Ready handles the /ready endpoint.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service ready"
// @Failure 503 {object} map[string]string "Service not ready"
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.sessions.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "session store unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the process is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
