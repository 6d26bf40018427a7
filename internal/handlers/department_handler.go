package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// DepartmentHandler serves CRUD for the department tree.
type DepartmentHandler struct {
	svc *services.DepartmentService
}

func NewDepartmentHandler(svc *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

func (h *DepartmentHandler) Create(c *gin.Context) {
	var in services.DepartmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed department payload"))
		return
	}

	dept, err := h.svc.Create(c.Request.Context(), in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dept)
}

// List requires a company_id query parameter.
func (h *DepartmentHandler) List(c *gin.Context) {
	companyID, err := queryUint(c, "company_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if companyID == 0 {
		response.Error(c, apperrors.NewBadRequest("company_id query parameter is required"))
		return
	}

	depts, err := h.svc.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, depts)
}

func (h *DepartmentHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dept, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dept)
}

func (h *DepartmentHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var in services.DepartmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed department payload"))
		return
	}

	dept, err := h.svc.Update(c.Request.Context(), id, in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dept)
}

func (h *DepartmentHandler) Delete(c *gin.Context) {
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
