package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
)

// HandleDashboardFunc returns the dashboard handler
// @Summary      Dashboard totals
// @Description  Residents, households, voters, seniors, blotters by status and pending document requests.
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=services.DashboardStats}
// @Failure      500  {object}  ErrorResponse
// @Router       /dashboard [get]
func HandleDashboardFunc(container *container.ServiceContainer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dashboard := container.GetService("dashboard").(services.InterfaceDashboardService)
		stats, err := dashboard.GetStats(ctx.Request.Context())
		if err != nil {
			failWith(ctx, err, code.ErrRecordNotFound, code.ErrConflict)
			return
		}
		response.Success(ctx, stats)
	}
}
