package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/solvento/hrcore/internal/endpoints"
	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// AdminPermissionsHandler serves the administrative permission surface: the
// endpoint catalog and the per-user grant grid.
type AdminPermissionsHandler struct {
	svc *services.UserPermissionService
}

func NewAdminPermissionsHandler(svc *services.UserPermissionService) *AdminPermissionsHandler {
	return &AdminPermissionsHandler{svc: svc}
}

// Endpoints lists every route the server exposes, for grant editors.
func (h *AdminPermissionsHandler) Endpoints(c *gin.Context) {
	response.Success(c, endpoints.All())
}

// Grants returns the user's grant set grouped by endpoint.
func (h *AdminPermissionsHandler) Grants(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	grid, err := h.svc.PermissionsJSON(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, grid)
}

// ReplaceGrants swaps the user's whole grant set atomically.
func (h *AdminPermissionsHandler) ReplaceGrants(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var perms services.PermissionMap
	if err := c.ShouldBindJSON(&perms); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed permission map"))
		return
	}

	if err := h.svc.ReplaceAll(c.Request.Context(), id, perms, middleware.ActorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"replaced": id})
}
