package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/middleware"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
)

// accepted ID-document content types
var documentContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// InterfaceResidentController defines the resident controller interface
type InterfaceResidentController interface {
	GetResidents()
	GetResident()
	CreateResident()
	UpdateResident()
	DeleteResident()
	UploadDocument()
	RemoveDocument()
}

// ResidentController handles resident records
type ResidentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewResidentController creates a new resident controller
func NewResidentController(ctx *gin.Context, container *container.ServiceContainer) *ResidentController {
	return &ResidentController{
		Ctx:       ctx,
		Container: container,
	}
}

// ResidentRequest is the body of a resident create or update
type ResidentRequest struct {
	FirstName       string `json:"first_name" example:"Jose"`
	MiddleName      string `json:"middle_name" example:"Protacio"`
	LastName        string `json:"last_name" example:"Rizal"`
	Suffix          string `json:"suffix" example:""`
	Sex             string `json:"sex" example:"Male"`
	Birthday        string `json:"birthday" example:"1990-06-19"`
	CivilStatus     string `json:"civil_status" example:"Single"`
	ContactNumber   string `json:"contact_number" example:"09171234567"`
	Occupation      string `json:"occupation" example:"Farmer"`
	Address         string `json:"address" example:"12 Mabini St."`
	Purok           string `json:"purok" example:"Purok 2"`
	HouseholdNumber string `json:"household_number" example:"HH-001"`
	IsFamilyHead    bool   `json:"is_family_head" example:"true"`
	IsWife          bool   `json:"is_wife" example:"false"`
	VoterDeclared   bool   `json:"voter_declared" example:"false"`
}

func (r *ResidentRequest) toModel() (*models.Resident, error) {
	birthday, err := parseDate("birthday", r.Birthday)
	if err != nil {
		return nil, err
	}
	return &models.Resident{
		FirstName:       r.FirstName,
		MiddleName:      r.MiddleName,
		LastName:        r.LastName,
		Suffix:          r.Suffix,
		Sex:             r.Sex,
		Birthday:        birthday,
		CivilStatus:     r.CivilStatus,
		ContactNumber:   r.ContactNumber,
		Occupation:      r.Occupation,
		Address:         r.Address,
		Purok:           r.Purok,
		HouseholdNumber: r.HouseholdNumber,
		IsFamilyHead:    r.IsFamilyHead,
		IsWife:          r.IsWife,
		VoterDeclared:   r.VoterDeclared,
	}, nil
}

// HandleResidentFunc returns the gin handler for the named resident method
func HandleResidentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewResidentController(ctx, container)

		switch method {
		case "getResidents":
			controller.GetResidents()
		case "getResident":
			controller.GetResident()
		case "createResident":
			controller.CreateResident()
		case "updateResident":
			controller.UpdateResident()
		case "deleteResident":
			controller.DeleteResident()
		case "uploadDocument":
			controller.UploadDocument()
		case "removeDocument":
			controller.RemoveDocument()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

func (c *ResidentController) service() services.InterfaceResidentService {
	return c.Container.GetService("resident").(services.InterfaceResidentService)
}

func (c *ResidentController) fail(err error) {
	failWith(c.Ctx, err, code.ErrResidentNotFound, code.ErrResidentAlreadyExist)
}

// 1. GetResidents lists residents
// @Summary      List residents
// @Tags         Resident
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        page_size query int false "Page size, default 10"
// @Param        search query string false "First, middle or last name"
// @Param        household_number query string false "Household number, e.g. HH-001"
// @Param        purok query string false "Purok"
// @Param        sex query string false "Male or Female"
// @Param        voter query bool false "Registered voters only (true) or non-voters (false)"
// @Success      200  {object}  PageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /residents [get]
func (c *ResidentController) GetResidents() {
	q := parsePagination(c.Ctx)
	filter := services.ResidentFilter{
		Search:          c.Ctx.Query("search"),
		HouseholdNumber: c.Ctx.Query("household_number"),
		Purok:           c.Ctx.Query("purok"),
		Sex:             c.Ctx.Query("sex"),
	}
	if v := c.Ctx.Query("voter"); v != "" {
		voter, err := strconv.ParseBool(v)
		if err != nil {
			response.ParamError(c.Ctx, "voter must be true or false")
			return
		}
		filter.Voter = &voter
	}

	residents, total, err := c.service().GetAllResidents(c.Ctx.Request.Context(), q, filter)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, models.NewPageResult(residents, total, q))
}

// 2. GetResident returns one resident
// @Summary      Get resident
// @Tags         Resident
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resident ID"
// @Success      200  {object}  response.Response{data=models.Resident}
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [get]
func (c *ResidentController) GetResident() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	resident, err := c.service().GetResidentByID(c.Ctx.Request.Context(), id)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, resident)
}

// 3. CreateResident adds a resident
// @Summary      Create resident
// @Description  A family head without a household number opens a new household.
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resident body ResidentRequest true "Resident"
// @Success      201  {object}  response.Response{data=models.Resident}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /residents [post]
func (c *ResidentController) CreateResident() {
	var req ResidentRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	resident, err := req.toModel()
	if err != nil {
		c.fail(err)
		return
	}
	if err := c.service().CreateResident(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), resident); err != nil {
		c.fail(err)
		return
	}
	response.Created(c.Ctx, resident)
}

// 4. UpdateResident replaces a resident's fields
// @Summary      Update resident
// @Description  ID-document URLs are kept; use the document endpoints to change them.
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resident ID"
// @Param        resident body ResidentRequest true "Resident"
// @Success      200  {object}  response.Response{data=models.Resident}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /residents/{id} [put]
func (c *ResidentController) UpdateResident() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var req ResidentRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	input, err := req.toModel()
	if err != nil {
		c.fail(err)
		return
	}
	resident, err := c.service().UpdateResident(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), id, input)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, resident)
}

// 5. DeleteResident removes a resident and their ID-document images
// @Summary      Delete resident
// @Tags         Resident
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resident ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [delete]
func (c *ResidentController) DeleteResident() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteResident(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), id); err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, nil)
}

// 6. UploadDocument stores an ID-document image
// @Summary      Upload ID document
// @Description  Replaces the image in the slot; the old image is deleted.
// @Tags         Resident
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resident ID"
// @Param        kind path string true "national_id_front, national_id_back, voters_id_front or voters_id_back"
// @Param        file formData file true "JPEG, PNG, WebP or PDF"
// @Success      200  {object}  response.Response{data=models.Resident}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      413  {object}  ErrorResponse
// @Router       /residents/{id}/documents/{kind} [post]
func (c *ResidentController) UploadDocument() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	kind := models.IDDocumentKind(c.Ctx.Param("kind"))
	if _, known := models.DocumentColumn(kind); !known {
		response.ParamError(c.Ctx, "unknown document kind")
		return
	}

	cfg := c.Container.GetService("config").(*config.Config)
	limit := cfg.MaxUploadBytes()
	if limit > 0 {
		// multipart overhead gets a little headroom over the file limit
		c.Ctx.Request.Body = http.MaxBytesReader(c.Ctx.Writer, c.Ctx.Request.Body, limit+1<<20)
	}
	header, err := c.Ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c.Ctx, code.ErrUploadTooLarge, nil)
			return
		}
		response.ParamError(c.Ctx, "file is required")
		return
	}
	if limit > 0 && header.Size > limit {
		response.Fail(c.Ctx, code.ErrUploadTooLarge, nil)
		return
	}
	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	if !documentContentTypes[contentType] {
		response.ParamError(c.Ctx, "file must be a JPEG, PNG, WebP or PDF")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}
	defer file.Close()

	resident, err := c.service().UploadDocument(c.Ctx.Request.Context(), id, kind, file, contentType, header.Filename)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, resident)
}

// 7. RemoveDocument clears an ID-document slot
// @Summary      Remove ID document
// @Tags         Resident
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resident ID"
// @Param        kind path string true "Document kind"
// @Success      200  {object}  response.Response{data=models.Resident}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id}/documents/{kind} [delete]
func (c *ResidentController) RemoveDocument() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	resident, err := c.service().RemoveDocument(c.Ctx.Request.Context(), id, models.IDDocumentKind(c.Ctx.Param("kind")))
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, resident)
}
