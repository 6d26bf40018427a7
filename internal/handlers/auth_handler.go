package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/solvento/hrcore/internal/auth"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// AuthHandler serves login and token issuance.
type AuthHandler struct {
	users *services.UserService
	jwt   *auth.JWTService
}

func NewAuthHandler(users *services.UserService, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      uint   `json:"user_id"`
	Role        int    `json:"role"`
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("email and password are required"))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user)
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "failed to issue token"))
		return
	}

	response.Success(c, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		UserID:      user.ID,
		Role:        int(user.Role),
	})
}
