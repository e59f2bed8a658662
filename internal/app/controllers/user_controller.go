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

// InterfaceUserController defines the account controller interface
type InterfaceUserController interface {
	GetUsers()
	GetUser()
	CreateUser()
	UpdateUser()
	DeleteUser()
}

// UserController handles portal accounts
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController creates a new user controller
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateUserRequest is the body of a new account
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required" example:"secretary1"`
	Password string      `json:"password" binding:"required" example:"Barangay@123"`
	FullName string      `json:"full_name" example:"Maria Clara"`
	Email    string      `json:"email" binding:"omitempty,email" example:"secretary@caridad.gov.ph"`
	Role     models.Role `json:"role" example:"secretary"`
}

// UpdateUserRequest changes the fields that are present
type UpdateUserRequest struct {
	FullName *string            `json:"full_name" example:"Maria Clara"`
	Email    *string            `json:"email" binding:"omitempty,email" example:"secretary@caridad.gov.ph"`
	Role     *models.Role       `json:"role" example:"staff"`
	Status   *models.UserStatus `json:"status" example:"inactive"`
	Password *string            `json:"password" example:"NewPassword@123"`
}

// HandleUserFunc returns the gin handler for the named account method
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "getUser":
			controller.GetUser()
		case "createUser":
			controller.CreateUser()
		case "updateUser":
			controller.UpdateUser()
		case "deleteUser":
			controller.DeleteUser()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

func (c *UserController) service() services.InterfaceUserService {
	return c.Container.GetService("user").(services.InterfaceUserService)
}

// 1. GetUsers lists accounts
// @Summary      List accounts
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        page_size query int false "Page size, default 10"
// @Param        search query string false "Username, name or email"
// @Success      200  {object}  PageResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /users [get]
func (c *UserController) GetUsers() {
	q := parsePagination(c.Ctx)
	users, total, err := c.service().GetAllUsers(c.Ctx.Request.Context(), q, c.Ctx.Query("search"))
	if err != nil {
		failWith(c.Ctx, err, code.ErrUserNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.Success(c.Ctx, models.NewPageResult(users, total, q))
}

// 2. GetUser returns one account
// @Summary      Get account
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  {object}  response.Response{data=models.User}
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (c *UserController) GetUser() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	user, err := c.service().GetUserByID(c.Ctx.Request.Context(), id)
	if err != nil {
		failWith(c.Ctx, err, code.ErrUserNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.Success(c.Ctx, user)
}

// 3. CreateUser adds an account
// @Summary      Create account
// @Description  Role defaults to staff.
// @Tags         User
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user body CreateUserRequest true "Account"
// @Success      201  {object}  response.Response{data=models.User}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users [post]
func (c *UserController) CreateUser() {
	var req CreateUserRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	user, err := c.service().CreateUser(c.Ctx.Request.Context(), services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		failWith(c.Ctx, err, code.ErrUserNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.Created(c.Ctx, user)
}

// 4. UpdateUser changes an account
// @Summary      Update account
// @Description  Changing the role, status or password signs the account out everywhere.
// @Tags         User
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        user body UpdateUserRequest true "Fields to change"
// @Success      200  {object}  response.Response{data=models.User}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [put]
func (c *UserController) UpdateUser() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}
	user, err := c.service().UpdateUser(c.Ctx.Request.Context(), id, services.UpdateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
		Status:   req.Status,
		Password: req.Password,
	})
	if err != nil {
		failWith(c.Ctx, err, code.ErrUserNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.Success(c.Ctx, user)
}

// 5. DeleteUser removes an account other than the caller's
// @Summary      Delete account
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (c *UserController) DeleteUser() {
	id, ok := parseID(c.Ctx, "id")
	if !ok {
		return
	}
	if err := c.service().DeleteUser(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), id); err != nil {
		failWith(c.Ctx, err, code.ErrUserNotFound, code.ErrUserAlreadyExist)
		return
	}
	response.Success(c.Ctx, nil)
}
