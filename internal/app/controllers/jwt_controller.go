package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/middleware"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// InterfaceJWTController defines the sign-in controller interface
type InterfaceJWTController interface {
	Login()
	Logout()
	Me()
}

// JWTController handles sign-in and sign-out
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController creates a new JWT controller
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest is the sign-in body
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse is the body of a successful sign-in
type LoginResponse struct {
	Code    int                  `json:"code" example:"100000"`
	Message string               `json:"message" example:"success"`
	Data    services.LoginResult `json:"data"`
}

// HandleJWTFunc returns the gin handler for the named sign-in method
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "logout":
			controller.Logout()
		case "me":
			controller.Me()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "invalid method", nil)
		}
	}
}

// 1. Login signs a user in
// @Summary      Sign in
// @Description  Checks the credentials and opens a server-side session. The token is sent as a Bearer header afterwards.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  LoginResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.Login(c.Ctx.Request.Context(), middleware.GetActor(c.Ctx), req.Username, req.Password)
	if err != nil {
		failWith(c.Ctx, err, code.ErrUserNotFound, code.ErrConflict)
		return
	}
	response.Success(c.Ctx, result)
}

// 2. Logout revokes the current session
// @Summary      Sign out
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (c *JWTController) Logout() {
	token := c.Ctx.GetString(middleware.ContextToken)
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	if err := jwtService.Logout(c.Ctx.Request.Context(), token); err != nil && !errors.Is(err, services.ErrSessionNotFound) {
		Logger.Warning("logout failed: %v", err)
	}
	response.Success(c.Ctx, nil)
}

// 3. Me returns the signed-in user
// @Summary      Current user
// @Description  The role is read from the account, not from the token.
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=services.Principal}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
func (c *JWTController) Me() {
	principal, ok := middleware.GetPrincipal(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx)
		return
	}
	response.Success(c.Ctx, principal)
}
