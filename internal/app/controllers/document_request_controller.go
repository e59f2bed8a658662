package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/middleware"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
)

// DocumentRequestController handles requests for barangay documents
type DocumentRequestController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDocumentRequestController creates a new document request controller
func NewDocumentRequestController(ctx *gin.Context, container *container.ServiceContainer) *DocumentRequestController {
	return &DocumentRequestController{
		Ctx:       ctx,
		Container: container,
	}
}

// DocumentRequestBody is the body of a request create or update
type DocumentRequestBody struct {
	ResidentID   *uint             `json:"resident_id" example:"12"`
	ResidentName string            `json:"resident_name" example:"Juan Dela Cruz"`
	DocumentType string            `json:"document_type" example:"Barangay Clearance"`
	Purpose      string            `json:"purpose" example:"Employment"`
	Remarks      string            `json:"remarks" example:""`
	Details      datatypes.JSONMap `json:"details" swaggertype:"object"`
}

// DocumentStatusRequest is the body of a status change
type DocumentStatusRequest struct {
	Status  models.DocumentRequestStatus `json:"status" binding:"required" example:"released"`
	Remarks string                       `json:"remarks" example:"Claimed by the requester"`
}

// HandleDocumentRequestFunc returns the gin handler for the named method
func HandleDocumentRequestFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDocumentRequestController(ctx, container)

		switch method {
		case "getRequests":
			controller.GetRequests()
		case "getRequest":
			controller.GetRequest()
		case "createRequest":
			controller.CreateRequest()
		case "updateRequest":
			controller.UpdateRequest()
		case "updateStatus":
			controller.UpdateStatus()
		case "deleteRequest":
			controller.DeleteRequest()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

func (c *DocumentRequestController) service() services.InterfaceDocumentRequestService {
	return c.Container.GetService("document_request").(services.InterfaceDocumentRequestService)
}

func (c *DocumentRequestController) fail(err error) {
	failWith(c.Ctx, err, code.ErrDocumentRequestNotFound, code.ErrConflict)
}

func (b *DocumentRequestBody) toModel() *models.DocumentRequest {
	return &models.DocumentRequest{
		ResidentID:   b.ResidentID,
		ResidentName: b.ResidentName,
		DocumentType: b.DocumentType,
		Purpose:      b.Purpose,
		Remarks:      b.Remarks,
		Details:      b.Details,
	}
}

// 1. GetRequests lists document requests, newest first
// @Summary      List document requests
// @Tags         DocumentRequest
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        page_size query int false "Page size, default 10"
// @Param        status query string false "pending, processing, ready, released or rejected"
// @Param        search query string false "Resident name or purpose"
// @Success      200  {object}  PageResponse
// @Router       /document-requests [get]
func (c *DocumentRequestController) GetRequests() {
	q := parsePagination(c.Ctx)
	status := models.DocumentRequestStatus(c.Ctx.Query("status"))
	requests, total, err := c.service().GetAllRequests(c.Ctx.Request.Context(), q, status, c.Ctx.Query("search"))
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, models.NewPageResult(requests, total, q))
}

// 2. GetRequest returns one document request
// @Summary      Get document request
// @Tags         DocumentRequest
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Success      200  {object}  response.Response{data=models.DocumentRequest}
// @Failure      404  {object}  ErrorResponse
// @Router       /document-requests/{id} [get]
func (c *DocumentRequestController) GetRequest() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	request, err := c.service().GetRequestByID(c.Ctx.Request.Context(), id)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, request)
}

// 3. CreateRequest files a pending document request
// @Summary      Create document request
// @Tags         DocumentRequest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DocumentRequestBody true "Request"
// @Success      201  {object}  response.Response{data=models.DocumentRequest}
// @Failure      400  {object}  ErrorResponse
// @Router       /document-requests [post]
func (c *DocumentRequestController) CreateRequest() {
	var body DocumentRequestBody
	if !bindJSON(c.Ctx, &body) {
		return
	}
	request := body.toModel()
	if err := c.service().CreateRequest(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), request); err != nil {
		c.fail(err)
		return
	}
	response.Created(c.Ctx, request)
}

// 4. UpdateRequest changes a document request
// @Summary      Update document request
// @Tags         DocumentRequest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Param        request body DocumentRequestBody true "Request"
// @Success      200  {object}  response.Response{data=models.DocumentRequest}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /document-requests/{id} [put]
func (c *DocumentRequestController) UpdateRequest() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var body DocumentRequestBody
	if !bindJSON(c.Ctx, &body) {
		return
	}
	request, err := c.service().UpdateRequest(c.Ctx.Request.Context(), id, body.toModel())
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, request)
}

// 5. UpdateStatus moves a document request along
// @Summary      Change document request status
// @Description  Released requests cannot change status again.
// @Tags         DocumentRequest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Param        status body DocumentStatusRequest true "New status"
// @Success      200  {object}  response.Response{data=models.DocumentRequest}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /document-requests/{id}/status [patch]
func (c *DocumentRequestController) UpdateStatus() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var req DocumentStatusRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	request, err := c.service().UpdateRequestStatus(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), id, req.Status, req.Remarks)
	if err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, request)
}

// 6. DeleteRequest removes a document request
// @Summary      Delete document request
// @Tags         DocumentRequest
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /document-requests/{id} [delete]
func (c *DocumentRequestController) DeleteRequest() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteRequest(c.Ctx.Request.Context(), id); err != nil {
		c.fail(err)
		return
	}
	response.Success(c.Ctx, nil)
}
