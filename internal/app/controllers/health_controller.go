package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
)

const healthTimeout = 3 * time.Second

// HealthController reports whether the backing stores answer
type HealthController struct {
	stores map[string]repositories.Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(stores map[string]repositories.Pinger) *HealthController {
	return &HealthController{stores: stores}
}

// Health pings every store
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(c.stores))}
	status := http.StatusOK
	for name, store := range c.stores {
		if err := store.Ping(pingCtx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	ctx.JSON(status, resp)
}
