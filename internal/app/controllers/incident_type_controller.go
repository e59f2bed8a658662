package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
)

// IncidentTypeController handles the incident-type registry
type IncidentTypeController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewIncidentTypeController creates a new incident type controller
func NewIncidentTypeController(ctx *gin.Context, container *container.ServiceContainer) *IncidentTypeController {
	return &IncidentTypeController{
		Ctx:       ctx,
		Container: container,
	}
}

// IncidentTypeRequest registers a custom incident type
type IncidentTypeRequest struct {
	Name string `json:"name" binding:"required" example:"Noise Complaint"`
}

// HandleIncidentTypeFunc returns the gin handler for the named registry method
func HandleIncidentTypeFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewIncidentTypeController(ctx, container)

		switch method {
		case "getIncidentTypes":
			controller.GetIncidentTypes()
		case "registerIncidentType":
			controller.RegisterIncidentType()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

func (c *IncidentTypeController) service() services.InterfaceIncidentTypeService {
	return c.Container.GetService("incident_type").(services.InterfaceIncidentTypeService)
}

// 1. GetIncidentTypes returns the built-in types followed by the custom ones
// @Summary      List incident types
// @Tags         IncidentType
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /incident-types [get]
func (c *IncidentTypeController) GetIncidentTypes() {
	types, err := c.service().List(c.Ctx.Request.Context())
	if err != nil {
		failWith(c.Ctx, err, code.ErrRecordNotFound, code.ErrConflict)
		return
	}
	response.Success(c.Ctx, types)
}

// 2. RegisterIncidentType adds a custom type unless it is already known
// @Summary      Register incident type
// @Tags         IncidentType
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        type body IncidentTypeRequest true "Incident type"
// @Success      200  {object}  response.Response
// @Success      201  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /incident-types [post]
func (c *IncidentTypeController) RegisterIncidentType() {
	var req IncidentTypeRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	created, err := c.service().Register(c.Ctx.Request.Context(), req.Name)
	if err != nil {
		failWith(c.Ctx, err, code.ErrRecordNotFound, code.ErrConflict)
		return
	}
	data := gin.H{"name": req.Name, "created": created}
	if created {
		response.Created(c.Ctx, data)
		return
	}
	response.Success(c.Ctx, data)
}
