package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/solvento/hrcore/internal/auth"
	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

const (
	ContextUserID = "auth.user_id"
	ContextRole   = "auth.role"
)

// RequireAuth validates the bearer token and stores the caller's identity on
// the request context.
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, if any.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentRole returns the authenticated user's role, if any.
func CurrentRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return 0, false
	}
	role, ok := v.(models.Role)
	return role, ok
}

// ActorID returns the authenticated user id as a nullable audit stamp.
func ActorID(c *gin.Context) *uint {
	if id, ok := CurrentUserID(c); ok {
		return &id
	}
	return nil
}
