package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// UserPermissionHandler serves single-grant CRUD.
type UserPermissionHandler struct {
	svc *services.UserPermissionService
}

func NewUserPermissionHandler(svc *services.UserPermissionService) *UserPermissionHandler {
	return &UserPermissionHandler{svc: svc}
}

func (h *UserPermissionHandler) Create(c *gin.Context) {
	var in services.CreateGrantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed grant payload"))
		return
	}

	grant, err := h.svc.Create(c.Request.Context(), in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grant)
}

// ListByUser requires a user_id query parameter.
func (h *UserPermissionHandler) ListByUser(c *gin.Context) {
	userID, err := queryUint(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if userID == 0 {
		response.Error(c, apperrors.NewBadRequest("user_id query parameter is required"))
		return
	}

	grants, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, grants)
}

type updateGrantRequest struct {
	Allowed *bool `json:"allowed" binding:"required"`
}

// Update flips the allowed flag; nothing else about a grant is mutable.
func (h *UserPermissionHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Allowed == nil {
		response.Error(c, apperrors.NewBadRequest("allowed is required"))
		return
	}

	grant, err := h.svc.Update(c.Request.Context(), id, *req.Allowed, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, grant)
}

func (h *UserPermissionHandler) Delete(c *gin.Context) {
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
