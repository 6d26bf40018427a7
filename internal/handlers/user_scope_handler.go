package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// UserScopeHandler serves scope assignments.
type UserScopeHandler struct {
	svc *services.UserScopeService
}

func NewUserScopeHandler(svc *services.UserScopeService) *UserScopeHandler {
	return &UserScopeHandler{svc: svc}
}

func (h *UserScopeHandler) Create(c *gin.Context) {
	var in services.CreateScopeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed scope payload"))
		return
	}

	scope, err := h.svc.Create(c.Request.Context(), in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, scope)
}

// ListByUser requires a user_id query parameter.
func (h *UserScopeHandler) ListByUser(c *gin.Context) {
	userID, err := queryUint(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if userID == 0 {
		response.Error(c, apperrors.NewBadRequest("user_id query parameter is required"))
		return
	}

	scopes, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, scopes)
}

func (h *UserScopeHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, middleware.ActorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": id})
}
