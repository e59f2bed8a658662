package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/middleware"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
)

// InterfaceBlotterController defines the blotter controller interface
type InterfaceBlotterController interface {
	GetBlotters()
	GetBlotter()
	CreateBlotter()
	UpdateBlotter()
	UpdateStatus()
	DeleteBlotter()
	GetArchivedBlotters()
	GetArchivedBlotter()
	Reconcile()
}

// BlotterController handles incident reports and their archive
type BlotterController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBlotterController creates a new blotter controller
func NewBlotterController(ctx *gin.Context, container *container.ServiceContainer) *BlotterController {
	return &BlotterController{
		Ctx:       ctx,
		Container: container,
	}
}

// BlotterRequest is the body of a blotter create or update. With
// incident_type "Other" the custom type is used and remembered.
type BlotterRequest struct {
	Complainant        string               `json:"complainant" example:"Juan Dela Cruz"`
	Respondent         string               `json:"respondent" example:"Pedro Penduko"`
	IncidentType       string               `json:"incident_type" example:"Theft"`
	CustomIncidentType string               `json:"custom_incident_type" example:""`
	IncidentDate       string               `json:"incident_date" example:"2024-03-10"`
	Location           string               `json:"location" example:"Purok 3"`
	Details            string               `json:"details" example:"Bicycle taken from the front yard overnight."`
	Status             models.BlotterStatus `json:"status" example:"filed"`
}

func (r *BlotterRequest) toInput() (services.BlotterInput, error) {
	date, err := parseDate("incident_date", r.IncidentDate)
	if err != nil {
		return services.BlotterInput{}, err
	}
	return services.BlotterInput{
		BlotterFields: models.BlotterFields{
			Complainant:  r.Complainant,
			Respondent:   r.Respondent,
			IncidentType: r.IncidentType,
			IncidentDate: date,
			Location:     r.Location,
			Details:      r.Details,
			Status:       r.Status,
		},
		CustomIncidentType: r.CustomIncidentType,
	}, nil
}

// BlotterStatusRequest is the body of a status change
type BlotterStatusRequest struct {
	Status models.BlotterStatus `json:"status" binding:"required" example:"settled"`
}

// BlotterWriteResponse is the body of a blotter write. Archived is set when
// the record moved to the archive.
type BlotterWriteResponse struct {
	Code    int                         `json:"code" example:"100000"`
	Message string                      `json:"message" example:"success"`
	Data    services.BlotterWriteResult `json:"data"`
}

// HandleBlotterFunc returns the gin handler for the named blotter method
func HandleBlotterFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBlotterController(ctx, container)

		switch method {
		case "getBlotters":
			controller.GetBlotters()
		case "getBlotter":
			controller.GetBlotter()
		case "createBlotter":
			controller.CreateBlotter()
		case "updateBlotter":
			controller.UpdateBlotter()
		case "updateStatus":
			controller.UpdateStatus()
		case "deleteBlotter":
			controller.DeleteBlotter()
		case "getArchivedBlotters":
			controller.GetArchivedBlotters()
		case "getArchivedBlotter":
			controller.GetArchivedBlotter()
		case "reconcile":
			controller.Reconcile()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

func (c *BlotterController) service() services.InterfaceBlotterService {
	return c.Container.GetService("blotter").(services.InterfaceBlotterService)
}

func (c *BlotterController) fail(err error) {
	failWith(c.Ctx, err, code.ErrBlotterNotFound, code.ErrConflict)
}

func (c *BlotterController) filter() services.BlotterFilter {
	return services.BlotterFilter{
		Status:       models.BlotterStatus(c.Ctx.Query("status")),
		Location:     c.Ctx.Query("location"),
		IncidentType: c.Ctx.Query("incident_type"),
		Search:       c.Ctx.Query("search"),
	}
}

// 1. GetBlotters lists active blotters, newest first
// @Summary      List blotters
// @Tags         Blotter
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        page_size query int false "Page size, default 10"
// @Param        status query string false "Status"
// @Param        location query string false "Purok"
// @Param        incident_type query string false "Incident type"
// @Param        search query string false "Complainant or respondent"
// @Success      200  {object}  PageResponse
// @Router       /blotters [get]
func (c *BlotterController) GetBlotters() {
	q := parsePagination(c.Ctx)
	blotters, total, err := c.service().GetAllBlotters(c.Ctx.Request.Context(), q, c.filter())
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, models.NewPageResult(blotters, total, q))
}

// 2. GetBlotter returns one active blotter
// @Summary      Get blotter
// @Tags         Blotter
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Blotter ID"
// @Success      200  {object}  response.Response{data=models.Blotter}
// @Failure      404  {object}  ErrorResponse
// @Router       /blotters/{id} [get]
func (c *BlotterController) GetBlotter() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	blotter, err := c.service().GetBlotterByID(c.Ctx.Request.Context(), id)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, blotter)
}

// 3. CreateBlotter files an incident report
// @Summary      Create blotter
// @Description  A report filed as settled or closed goes straight to the archive.
// @Tags         Blotter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        blotter body BlotterRequest true "Blotter"
// @Success      201  {object}  BlotterWriteResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /blotters [post]
func (c *BlotterController) CreateBlotter() {
	var req BlotterRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.fail(err)
		return
	}
	result, err := c.service().CreateBlotter(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), input)
	if err != nil {
		c.fail(err)
		return
	}
	response.Created(c.Ctx, result)
}

// 4. UpdateBlotter replaces a blotter's fields
// @Summary      Update blotter
// @Description  An empty status keeps the current one. Settled or closed archives the record.
// @Tags         Blotter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Blotter ID"
// @Param        blotter body BlotterRequest true "Blotter"
// @Success      200  {object}  BlotterWriteResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /blotters/{id} [put]
func (c *BlotterController) UpdateBlotter() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var req BlotterRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.fail(err)
		return
	}
	result, err := c.service().UpdateBlotter(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), id, input)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, result)
}

// 5. UpdateStatus moves a blotter to another status
// @Summary      Change blotter status
// @Description  Settled or closed moves the record to the archive in the same transaction.
// @Tags         Blotter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Blotter ID"
// @Param        status body BlotterStatusRequest true "New status"
// @Success      200  {object}  BlotterWriteResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /blotters/{id}/status [patch]
func (c *BlotterController) UpdateStatus() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var req BlotterStatusRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	result, err := c.service().UpdateStatus(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), id, req.Status)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, result)
}

// 6. DeleteBlotter removes an active blotter
// @Summary      Delete blotter
// @Tags         Blotter
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Blotter ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /blotters/{id} [delete]
func (c *BlotterController) DeleteBlotter() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteBlotter(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), id); err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, nil)
}

// 7. GetArchivedBlotters lists archived blotters, most recently archived first
// @Summary      List archived blotters
// @Tags         Blotter
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        page_size query int false "Page size, default 10"
// @Param        status query string false "settled or closed"
// @Param        search query string false "Complainant or respondent"
// @Success      200  {object}  PageResponse
// @Router       /archived-blotters [get]
func (c *BlotterController) GetArchivedBlotters() {
	q := parsePagination(c.Ctx)
	archived, total, err := c.service().GetArchivedBlotters(c.Ctx.Request.Context(), q, c.filter())
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, models.NewPageResult(archived, total, q))
}

// 8. GetArchivedBlotter returns one archived blotter
// @Summary      Get archived blotter
// @Tags         Blotter
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Archive ID"
// @Success      200  {object}  response.Response{data=models.ArchivedBlotter}
// @Failure      404  {object}  ErrorResponse
// @Router       /archived-blotters/{id} [get]
func (c *BlotterController) GetArchivedBlotter() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	archived, err := c.service().GetArchivedBlotterByID(c.Ctx.Request.Context(), id)
	if err != nil {
		failWith(c.Ctx, err, code.ErrArchivedBlotterNotFound, code.ErrConflict)
		return
	}
	response.Success(c.Ctx, archived)
}

// 9. Reconcile repairs active blotters that are already archived or that
// hold a terminal status
// @Summary      Reconcile blotter archive
// @Tags         Blotter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=services.ReconcileReport}
// @Failure      403  {object}  ErrorResponse
// @Router       /blotters/reconcile [post]
func (c *BlotterController) Reconcile() {
	report, err := c.service().ReconcileArchive(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx))
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, report)
}
