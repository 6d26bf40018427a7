package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// BusinessGroupHandler serves CRUD for business groups.
type BusinessGroupHandler struct {
	svc *services.BusinessGroupService
	db  *gorm.DB
}

func NewBusinessGroupHandler(svc *services.BusinessGroupService, db *gorm.DB) *BusinessGroupHandler {
	return &BusinessGroupHandler{svc: svc, db: db}
}

func (h *BusinessGroupHandler) Create(c *gin.Context) {
	var in services.BusinessGroupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed business group payload"))
		return
	}

	group, err := h.svc.Create(c.Request.Context(), in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

func (h *BusinessGroupHandler) List(c *gin.Context) {
	ids, unrestricted, err := callerGroups(c, h.db)
	if err != nil {
		response.Error(c, err)
		return
	}

	groups, err := h.svc.List(c.Request.Context(), ids, unrestricted)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, groups)
}

func (h *BusinessGroupHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	group, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, group)
}

func (h *BusinessGroupHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var in services.BusinessGroupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed business group payload"))
		return
	}

	group, err := h.svc.Update(c.Request.Context(), id, in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, group)
}

func (h *BusinessGroupHandler) Delete(c *gin.Context) {
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
