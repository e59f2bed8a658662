package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
)

// HandleOperationLogFunc returns the activity log handler
// @Summary      Activity log
// @Tags         OperationLog
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        page_size query int false "Page size, default 10"
// @Param        operation query string false "Operation type, e.g. blotter_archive"
// @Success      200  {object}  PageResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /operation-logs [get]
func HandleOperationLogFunc(container *container.ServiceContainer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		q := parsePagination(ctx)
		logs := container.GetService("operation_log").(services.InterfaceOperationLogService)
		entries, total, err := logs.List(ctx.Request.Context(), q, ctx.Query("operation"))
		if err != nil {
			failWith(ctx, err, code.ErrRecordNotFound, code.ErrConflict)
			return
		}
		response.Success(ctx, models.NewPageResult(entries, total, q))
	}
}
