package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/hierarchy"
	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/logger"
)

// DepartmentService manages the department tree of a company. Parent links
// run through the hierarchy guard so the tree stays acyclic and bounded.
type DepartmentService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDepartmentService(db *gorm.DB) *DepartmentService {
	return &DepartmentService{db: db, log: logger.WithModule("department_service")}
}

type DepartmentInput struct {
	CompanyID   uint   `json:"company_id" validate:"required"`
	BranchID    *uint  `json:"branch_id"`
	IsCorporate bool   `json:"is_corporate"`
	Code        string `json:"code" validate:"required,max=32"`
	Name        string `json:"name" validate:"required,max=255"`
	ParentID    *uint  `json:"parent_id"`
}

// departmentParentLookup resolves parent ids among live departments, for the
// hierarchy guard. It runs on whatever handle it is given, so callers inside
// a transaction see their own uncommitted writes.
func departmentParentLookup(db *gorm.DB) hierarchy.ParentLookup {
	return func(ctx context.Context, id uint) (*uint, error) {
		var dept models.Department
		err := db.WithContext(ctx).Select("parent_id").
			Where("id = ? AND is_deleted = ?", id, false).
			First(&dept).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return dept.ParentID, nil
	}
}

func (s *DepartmentService) Create(ctx context.Context, in DepartmentInput, actorID *uint) (*models.Department, error) {
	if err := validateInput("department", in); err != nil {
		return nil, err
	}
	if err := ensureLive(ctx, s.db, &models.Company{}, in.CompanyID, "company"); err != nil {
		return nil, err
	}
	if err := s.checkPlacement(ctx, 0, in); err != nil {
		return nil, err
	}

	dept := models.Department{
		CompanyID:   in.CompanyID,
		BranchID:    in.BranchID,
		IsCorporate: in.IsCorporate,
		Code:        in.Code,
		Name:        in.Name,
		ParentID:    in.ParentID,
	}
	dept.IsActive = true
	dept.CreatedBy = actorID

	if err := s.db.WithContext(ctx).Create(&dept).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("department", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to create department")
	}
	return &dept, nil
}

// checkPlacement enforces the corporate/branch rules and the parent
// constraints. A zero nodeID means the department does not exist yet, so only
// the guard's ancestry walk applies.
func (s *DepartmentService) checkPlacement(ctx context.Context, nodeID uint, in DepartmentInput) error {
	if in.IsCorporate && in.BranchID != nil {
		return apperrors.NewValidation("department", map[string]string{
			"branch_id": "corporate departments cannot belong to a branch",
		})
	}
	if !in.IsCorporate && in.BranchID == nil {
		return apperrors.NewValidation("department", map[string]string{
			"branch_id": "non-corporate departments require a branch",
		})
	}

	if in.BranchID != nil {
		var branch models.Branch
		err := s.db.WithContext(ctx).
			Where("id = ? AND is_deleted = ?", *in.BranchID, false).
			First(&branch).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("branch", *in.BranchID)
			}
			return apperrors.Wrap(err, "failed to load branch")
		}
		if branch.CompanyID != in.CompanyID {
			return apperrors.NewBusinessRule("branch belongs to a different company", map[string]any{
				"branch_id":  *in.BranchID,
				"company_id": in.CompanyID,
			})
		}
	}

	if in.ParentID == nil {
		return nil
	}

	var parent models.Department
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", *in.ParentID, false).
		First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("department", *in.ParentID)
		}
		return apperrors.Wrap(err, "failed to load parent department")
	}
	if parent.CompanyID != in.CompanyID {
		return apperrors.NewBusinessRule("parent department belongs to a different company", map[string]any{
			"parent_id":  *in.ParentID,
			"company_id": in.CompanyID,
		})
	}

	if nodeID != 0 {
		return hierarchy.CheckLink(ctx, nodeID, *in.ParentID, hierarchy.DefaultMaxDepth, departmentParentLookup(s.db))
	}

	// new node: only the existing chain's depth and integrity matter
	return hierarchy.CheckLink(ctx, 0, *in.ParentID, hierarchy.DefaultMaxDepth, departmentParentLookup(s.db))
}

func (s *DepartmentService) Get(ctx context.Context, id uint) (*models.Department, error) {
	var dept models.Department
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("department", id)
		}
		return nil, apperrors.Wrap(err, "failed to load department")
	}
	return &dept, nil
}

func (s *DepartmentService) ListByCompany(ctx context.Context, companyID uint) ([]models.Department, error) {
	var depts []models.Department
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND is_deleted = ?", companyID, false).
		Order("code").
		Find(&depts).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list departments")
	}
	return depts, nil
}

func (s *DepartmentService) Update(ctx context.Context, id uint, in DepartmentInput, actorID *uint) (*models.Department, error) {
	if err := validateInput("department", in); err != nil {
		return nil, err
	}

	dept, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CompanyID != dept.CompanyID {
		return nil, apperrors.NewBusinessRule("a department cannot move between companies", map[string]any{
			"department_id": id,
		})
	}
	if err := s.checkPlacement(ctx, id, in); err != nil {
		return nil, err
	}

	dept.BranchID = in.BranchID
	dept.IsCorporate = in.IsCorporate
	dept.Code = in.Code
	dept.Name = in.Name
	dept.ParentID = in.ParentID
	dept.UpdatedBy = actorID

	if err := s.db.WithContext(ctx).Save(dept).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("department", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to update department")
	}
	return dept, nil
}

// Delete soft-deletes the department unless live children or employees remain.
func (s *DepartmentService) Delete(ctx context.Context, id uint, actorID *uint) error {
	dept, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var children int64
	err = s.db.WithContext(ctx).Model(&models.Department{}).
		Where("parent_id = ? AND is_deleted = ?", id, false).
		Count(&children).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to count child departments")
	}
	if children > 0 {
		return apperrors.NewBusinessRule("department has active children", map[string]any{
			"department_id": id,
			"children":      children,
		})
	}

	var employees int64
	err = s.db.WithContext(ctx).Model(&models.Employee{}).
		Where("department_id = ? AND is_deleted = ?", id, false).
		Count(&employees).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to count department employees")
	}
	if employees > 0 {
		return apperrors.NewBusinessRule("department has active employees", map[string]any{
			"department_id": id,
			"employees":     employees,
		})
	}

	dept.MarkDeleted(actorID, time.Now().UTC())
	if err := s.db.WithContext(ctx).Save(dept).Error; err != nil {
		return apperrors.Wrap(err, "failed to delete department")
	}
	s.log.Info("department deleted", zap.Uint("id", id))
	return nil
}
