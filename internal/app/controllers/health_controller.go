package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/activityhub/internal/app/models/dto"
)

// Pinger checks that a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports service health
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health reports whether the service and its database are up
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Service healthy"
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse} "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	health := dto.HealthResponse{Status: "ok", Database: "ok"}
	if err := c.db.Ping(pingCtx); err != nil {
		status = http.StatusServiceUnavailable
		health = dto.HealthResponse{Status: "degraded", Database: "unreachable"}
	}

	response := dto.NewSuccessResponse(health, "")
	response.Success = status == http.StatusOK
	ctx.JSON(status, response)
}
