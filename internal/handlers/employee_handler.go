package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// EmployeeHandler serves CRUD for employment records.
type EmployeeHandler struct {
	svc *services.EmployeeService
	db  *gorm.DB
}

func NewEmployeeHandler(svc *services.EmployeeService, db *gorm.DB) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, db: db}
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var in services.EmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed employee payload"))
		return
	}

	emp, err := h.svc.Create(c.Request.Context(), in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, emp)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	ids, unrestricted, err := callerGroups(c, h.db)
	if err != nil {
		response.Error(c, err)
		return
	}

	employees, err := h.svc.List(c.Request.Context(), ids, unrestricted)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, employees)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	emp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, emp)
}

// Subordinates lists the employee's direct reports.
func (h *EmployeeHandler) Subordinates(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	reports, err := h.svc.Subordinates(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reports)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var in services.EmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed employee payload"))
		return
	}

	emp, err := h.svc.Update(c.Request.Context(), id, in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, emp)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
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
