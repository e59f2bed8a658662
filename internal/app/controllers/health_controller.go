package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/middleware"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/database"
)

// HealthCheckController answers liveness and status probes
type HealthCheckController struct {
	Container *container.ServiceContainer
	started   time.Time
}

// NewHealthCheckController creates the health check controller
func NewHealthCheckController(container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{
		Container: container,
		started:   time.Now(),
	}
}

// HandleHealthFunc returns the gin handler for the named health method
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	controller := NewHealthCheckController(container)
	switch method {
	case "ping":
		return controller.Ping
	case "status":
		return controller.Status
	}
	return func(ctx *gin.Context) {
		response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
	}
}

// Ping answers the liveness probe
// @Summary      Ping
// @Tags         Health
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /ping [get]
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status reports the database connection and the response cache
// @Summary      Service status
// @Tags         Health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  ErrorResponse
// @Router       /health/status [get]
func (h *HealthCheckController) Status(c *gin.Context) {
	db := h.Container.GetDB()
	data := gin.H{
		"uptime": time.Since(h.started).Round(time.Second).String(),
		"cache":  middleware.CacheStats(),
	}
	if err := database.Ping(c.Request.Context(), db); err != nil {
		data["database"] = gin.H{"status": "down", "error": err.Error()}
		response.FailWithMessage(c, code.ErrDatabase, "database unreachable", data)
		return
	}
	dbStatus := gin.H{"status": "up"}
	if sqlDB, err := db.DB(); err == nil {
		stats := sqlDB.Stats()
		dbStatus["open_connections"] = stats.OpenConnections
		dbStatus["in_use"] = stats.InUse
		dbStatus["idle"] = stats.Idle
	}
	data["database"] = dbStatus
	data["status"] = "healthy"
	response.Success(c, data)
}
