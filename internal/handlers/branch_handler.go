package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// BranchHandler serves CRUD for branches.
type BranchHandler struct {
	svc *services.BranchService
}

func NewBranchHandler(svc *services.BranchService) *BranchHandler {
	return &BranchHandler{svc: svc}
}

func (h *BranchHandler) Create(c *gin.Context) {
	var in services.BranchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed branch payload"))
		return
	}

	branch, err := h.svc.Create(c.Request.Context(), in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, branch)
}

// List requires a company_id query parameter.
func (h *BranchHandler) List(c *gin.Context) {
	companyID, err := queryUint(c, "company_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if companyID == 0 {
		response.Error(c, apperrors.NewBadRequest("company_id query parameter is required"))
		return
	}

	branches, err := h.svc.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, branches)
}

func (h *BranchHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	branch, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var in services.BranchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed branch payload"))
		return
	}

	branch, err := h.svc.Update(c.Request.Context(), id, in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, branch)
}

func (h *BranchHandler) Delete(c *gin.Context) {
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
