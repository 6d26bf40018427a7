package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/services"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/response"
)

// CompanyHandler serves CRUD for companies.
type CompanyHandler struct {
	svc *services.CompanyService
	db  *gorm.DB
}

func NewCompanyHandler(svc *services.CompanyService, db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{svc: svc, db: db}
}

func (h *CompanyHandler) Create(c *gin.Context) {
	var in services.CompanyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed company payload"))
		return
	}

	company, err := h.svc.Create(c.Request.Context(), in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, company)
}

func (h *CompanyHandler) List(c *gin.Context) {
	ids, unrestricted, err := callerGroups(c, h.db)
	if err != nil {
		response.Error(c, err)
		return
	}

	companies, err := h.svc.List(c.Request.Context(), ids, unrestricted)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, companies)
}

func (h *CompanyHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	company, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var in services.CompanyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, apperrors.NewBadRequest("malformed company payload"))
		return
	}

	company, err := h.svc.Update(c.Request.Context(), id, in, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, company)
}

func (h *CompanyHandler) Delete(c *gin.Context) {
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
