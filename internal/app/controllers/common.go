package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// ErrorResponse is the body of a failed request
type ErrorResponse struct {
	Code    int         `json:"code" example:"100003"`
	Message string      `json:"message" example:"validation failed"`
	Data    interface{} `json:"data"`
}

// PageResponse is the body of a list endpoint
type PageResponse struct {
	Code    int               `json:"code" example:"100000"`
	Message string            `json:"message" example:"success"`
	Data    models.PageResult `json:"data"`
}

// parseID reads a positive numeric path parameter
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.ParamError(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads ?page=&page_size=
func parsePagination(ctx *gin.Context) models.PaginationQuery {
	var q models.PaginationQuery
	_ = ctx.ShouldBindQuery(&q)
	return q.Normalize()
}

// bindJSON binds the request body, replying with ErrBind on failure
func bindJSON(ctx *gin.Context, dst interface{}) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		response.FailWithMessage(ctx, code.ErrBind, "invalid request body: "+err.Error(), nil)
		return false
	}
	return true
}

// failWith maps a service error to its reply. notFound and conflict are the
// resource-specific codes for ErrNotFound and ErrConflict.
func failWith(ctx *gin.Context, err error, notFound, conflict int) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(ctx, verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		response.Fail(ctx, notFound, nil)
	case errors.Is(err, services.ErrRoleTaken):
		response.FailWithMessage(ctx, code.ErrResidentRoleTaken, err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		response.FailWithMessage(ctx, conflict, err.Error(), nil)
	case errors.Is(err, services.ErrHouseholdHasMembers):
		response.Fail(ctx, code.ErrHouseholdHasMembers, nil)
	case errors.Is(err, services.ErrSelfDelete):
		response.Fail(ctx, code.ErrUserSelfDelete, nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Fail(ctx, code.ErrUserPasswordIncorrect, nil)
	case errors.Is(err, services.ErrUserInactive):
		response.Fail(ctx, code.ErrUserInactive, nil)
	case errors.Is(err, services.ErrSessionInvalid):
		response.Fail(ctx, code.ErrTokenInvalid, nil)
	case errors.Is(err, services.ErrArchiveFailed):
		Logger.Error("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
		response.Fail(ctx, code.ErrBlotterArchiveFailed, nil)
	case errors.Is(err, services.ErrStorage):
		Logger.Error("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
		response.Fail(ctx, code.ErrStorage, nil)
	default:
		Logger.Error("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
		response.Fail(ctx, code.ErrDatabase, nil)
	}
}

// parseDate reads a YYYY-MM-DD field. Empty input gives the zero time.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, &services.ValidationError{Fields: rules.ValidationErrors{field: "must be a date in YYYY-MM-DD format"}}
	}
	return t, nil
}
