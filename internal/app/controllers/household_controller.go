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

// InterfaceHouseholdController defines the household controller interface
type InterfaceHouseholdController interface {
	GetHouseholds()
	GetHousehold()
	CreateHousehold()
	UpdateHousehold()
	DeleteHousehold()
	GetNextNumber()
	GetHouseholdMembers()
}

// HouseholdController handles household requests
type HouseholdController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHouseholdController creates a new household controller
func NewHouseholdController(ctx *gin.Context, container *container.ServiceContainer) *HouseholdController {
	return &HouseholdController{
		Ctx:       ctx,
		Container: container,
	}
}

// HouseholdRequest is the body of a household create or update. An empty
// number on create is allocated.
type HouseholdRequest struct {
	HouseholdNumber string `json:"household_number" example:"HH-012"`
	HouseholdName   string `json:"household_name" example:"Rizal"`
	Purok           string `json:"purok" example:"Purok 2"`
}

// HandleHouseholdFunc returns the gin handler for the named household method
func HandleHouseholdFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHouseholdController(ctx, container)

		switch method {
		case "getHouseholds":
			controller.GetHouseholds()
		case "getHousehold":
			controller.GetHousehold()
		case "createHousehold":
			controller.CreateHousehold()
		case "updateHousehold":
			controller.UpdateHousehold()
		case "deleteHousehold":
			controller.DeleteHousehold()
		case "getNextNumber":
			controller.GetNextNumber()
		case "getHouseholdMembers":
			controller.GetHouseholdMembers()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

func (c *HouseholdController) service() services.InterfaceHouseholdService {
	return c.Container.GetService("household").(services.InterfaceHouseholdService)
}

func (c *HouseholdController) fail(err error) {
	failWith(c.Ctx, err, code.ErrHouseholdNotFound, code.ErrHouseholdAlreadyExist)
}

// 1. GetHouseholds lists households
// @Summary      List households
// @Tags         Household
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        page_size query int false "Page size, default 10"
// @Param        purok query string false "Purok"
// @Param        search query string false "Household number or name"
// @Success      200  {object}  PageResponse
// @Router       /households [get]
func (c *HouseholdController) GetHouseholds() {
	q := parsePagination(c.Ctx)
	households, total, err := c.service().GetAllHouseholds(c.Ctx.Request.Context(), q, c.Ctx.Query("purok"), c.Ctx.Query("search"))
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, models.NewPageResult(households, total, q))
}

// 2. GetHousehold returns a household with its members
// @Summary      Get household
// @Tags         Household
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Household ID"
// @Success      200  {object}  response.Response{data=models.Household}
// @Failure      404  {object}  ErrorResponse
// @Router       /households/{id} [get]
func (c *HouseholdController) GetHousehold() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	household, err := c.service().GetHouseholdByID(c.Ctx.Request.Context(), id)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, household)
}

// 3. CreateHousehold adds a household
// @Summary      Create household
// @Description  Without a number the next free HH-NNN is allocated.
// @Tags         Household
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        household body HouseholdRequest true "Household"
// @Success      201  {object}  response.Response{data=models.Household}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /households [post]
func (c *HouseholdController) CreateHousehold() {
	var req HouseholdRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	household := &models.Household{
		HouseholdNumber: req.HouseholdNumber,
		HouseholdName:   req.HouseholdName,
		Purok:           req.Purok,
	}
	if err := c.service().CreateHousehold(c.Ctx.Request.Context(), household); err != nil {
		c.fail(err)
		return
	}
	response.Created(c.Ctx, household)
}

// 4. UpdateHousehold changes a household
// @Summary      Update household
// @Description  A new number is carried over to the members.
// @Tags         Household
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Household ID"
// @Param        household body HouseholdRequest true "Household"
// @Success      200  {object}  response.Response{data=models.Household}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /households/{id} [put]
func (c *HouseholdController) UpdateHousehold() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var req HouseholdRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	household, err := c.service().UpdateHousehold(c.Ctx.Request.Context(), id, &models.Household{
		HouseholdNumber: req.HouseholdNumber,
		HouseholdName:   req.HouseholdName,
		Purok:           req.Purok,
	})
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, household)
}

// 5. DeleteHousehold removes an empty household
// @Summary      Delete household
// @Tags         Household
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Household ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /households/{id} [delete]
func (c *HouseholdController) DeleteHousehold() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteHousehold(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), id); err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, nil)
}

// 6. GetNextNumber previews the number the next household would get
// @Summary      Next household number
// @Tags         Household
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /households/next-number [get]
func (c *HouseholdController) GetNextNumber() {
	number, err := c.service().NextHouseholdNumber(c.Ctx.Request.Context())
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, gin.H{"household_number": number})
}

// 7. GetHouseholdMembers lists the residents of a household
// @Summary      Household members
// @Tags         Household
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Household ID"
// @Success      200  {object}  response.Response{data=[]models.Resident}
// @Failure      404  {object}  ErrorResponse
// @Router       /households/{id}/members [get]
func (c *HouseholdController) GetHouseholdMembers() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	members, err := c.service().GetHouseholdMembers(c.Ctx.Request.Context(), id)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, members)
}
