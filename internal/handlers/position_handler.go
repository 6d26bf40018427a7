package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// PositionHandler serves CRUD for positions.
type PositionHandler struct {
	svc *services.PositionService
}

func NewPositionHandler(svc *services.PositionService) *PositionHandler {
	return &PositionHandler{svc: svc}
}

func (h *PositionHandler) Create(c *gin.Context) {
	var in services.PositionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed position payload"))
		return
	}

	position, err := h.svc.Create(c.Request.Context(), in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, position)
}

// List requires a company_id query parameter.
func (h *PositionHandler) List(c *gin.Context) {
	companyID, err := queryUint(c, "company_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if companyID == 0 {
		response.Error(c, apperrors.NewBadRequest("company_id query parameter is required"))
		return
	}

	positions, err := h.svc.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, positions)
}

func (h *PositionHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	position, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, position)
}

func (h *PositionHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var in services.PositionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed position payload"))
		return
	}

	position, err := h.svc.Update(c.Request.Context(), id, in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, position)
}

func (h *PositionHandler) Delete(c *gin.Context) {
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
