package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/code"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/error/response"
)

// Context keys set by Authentication
const (
	ContextPrincipal = "principal"
	ContextUserID    = "userID"
	ContextRole      = "role"
	ContextToken     = "token"
)

// extractToken pulls the bearer token out of the authorization header
func extractToken(authHeader string) string {
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// Authentication checks the bearer token against the session store and
// stores the signed-in principal on the context
func Authentication(jwtService services.InterfaceJWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithMessage(c, code.ErrTokenInvalid, "Authorization header is required")
			return
		}
		tokenString := extractToken(authHeader)
		if tokenString == "" {
			response.AbortWithMessage(c, code.ErrTokenInvalid, "Authorization header format must be Bearer {token}")
			return
		}

		principal, err := jwtService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, services.ErrUserInactive) {
				response.AbortWithMessage(c, code.ErrUserInactive, code.GetMessage(code.ErrUserInactive))
				return
			}
			response.AbortWithMessage(c, code.ErrTokenInvalid, code.GetMessage(code.ErrTokenInvalid))
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Set(ContextUserID, principal.UserID)
		c.Set(ContextRole, principal.Role)
		c.Set(ContextToken, tokenString)
		c.Next()
	}
}

// RequireRoles lets the request through when the principal has one of roles.
// Admins pass every gate.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			response.AbortWithMessage(c, code.ErrTokenInvalid, code.GetMessage(code.ErrTokenInvalid))
			return
		}
		if principal.Role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		response.AbortWithMessage(c, code.ErrForbidden, "Insufficient permissions: requires role "+joinRoles(roles))
	}
}

// GetPrincipal returns the principal stored by Authentication
func GetPrincipal(c *gin.Context) (*services.Principal, bool) {
	v, exists := c.Get(ContextPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := v.(*services.Principal)
	return principal, ok && principal != nil
}

// GetActor returns the activity-log actor of the request
func GetActor(c *gin.Context) services.Actor {
	actor := services.Actor{IP: c.ClientIP()}
	if principal, ok := GetPrincipal(c); ok {
		actor.UserID = principal.UserID
	}
	return actor
}

func joinRoles(roles []models.Role) string {
	names := []string{string(models.RoleAdmin)}
	for _, r := range roles {
		if r != models.RoleAdmin {
			names = append(names, string(r))
		}
	}
	return strings.Join(names, " or ")
}
