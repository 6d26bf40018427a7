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

// EmployeeService manages employment records. The supervisor chain runs
// through the same hierarchy guard as the department tree.
type EmployeeService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewEmployeeService(db *gorm.DB) *EmployeeService {
	return &EmployeeService{db: db, log: logger.WithModule("employee_service")}
}

type EmployeeInput struct {
	UserID           *uint                   `json:"user_id"`
	BusinessGroupID  uint                    `json:"business_group_id" validate:"required"`
	CompanyID        uint                    `json:"company_id" validate:"required"`
	BranchID         *uint                   `json:"branch_id"`
	DepartmentID     uint                    `json:"department_id" validate:"required"`
	PositionID       uint                    `json:"position_id" validate:"required"`
	SupervisorID     *uint                   `json:"supervisor_id"`
	EmployeeCode     string                  `json:"employee_code" validate:"required,max=32"`
	HireDate         time.Time               `json:"hire_date" validate:"required"`
	EmploymentStatus models.EmploymentStatus `json:"employment_status" validate:"omitempty,oneof=ACTIVE SUSPENDED TERMINATED"`
}

func supervisorLookup(db *gorm.DB) hierarchy.ParentLookup {
	return func(ctx context.Context, id uint) (*uint, error) {
		var emp models.Employee
		err := db.WithContext(ctx).Select("supervisor_id").
			Where("id = ? AND is_deleted = ?", id, false).
			First(&emp).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return emp.SupervisorID, nil
	}
}

func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput, actorID *uint) (*models.Employee, error) {
	if err := validateInput("employee", in); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, 0, in); err != nil {
		return nil, err
	}

	status := in.EmploymentStatus
	if status == "" {
		status = models.EmploymentActive
	}

	emp := models.Employee{
		UserID:           in.UserID,
		BusinessGroupID:  in.BusinessGroupID,
		CompanyID:        in.CompanyID,
		BranchID:         in.BranchID,
		DepartmentID:     in.DepartmentID,
		PositionID:       in.PositionID,
		SupervisorID:     in.SupervisorID,
		EmployeeCode:     in.EmployeeCode,
		HireDate:         in.HireDate,
		EmploymentStatus: status,
	}
	emp.IsActive = true
	emp.CreatedBy = actorID

	if err := s.db.WithContext(ctx).Create(&emp).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("employee", "employee_code", in.EmployeeCode)
		}
		return nil, apperrors.Wrap(err, "failed to create employee")
	}
	return &emp, nil
}

// checkReferences validates the organizational placement: every referenced
// entity must be live and belong to the same company, and the supervisor
// chain must stay an acyclic tree.
func (s *EmployeeService) checkReferences(ctx context.Context, nodeID uint, in EmployeeInput) error {
	if err := ensureLive(ctx, s.db, &models.BusinessGroup{}, in.BusinessGroupID, "business group"); err != nil {
		return err
	}

	var company models.Company
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", in.CompanyID, false).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("company", in.CompanyID)
		}
		return apperrors.Wrap(err, "failed to load company")
	}
	if company.BusinessGroupID != in.BusinessGroupID {
		return apperrors.NewBusinessRule("company belongs to a different business group", map[string]any{
			"company_id":        in.CompanyID,
			"business_group_id": in.BusinessGroupID,
		})
	}

	var dept models.Department
	err = s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", in.DepartmentID, false).
		First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("department", in.DepartmentID)
		}
		return apperrors.Wrap(err, "failed to load department")
	}
	if dept.CompanyID != in.CompanyID {
		return apperrors.NewBusinessRule("department belongs to a different company", map[string]any{
			"department_id": in.DepartmentID,
			"company_id":    in.CompanyID,
		})
	}

	var position models.Position
	err = s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", in.PositionID, false).
		First(&position).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("position", in.PositionID)
		}
		return apperrors.Wrap(err, "failed to load position")
	}
	if position.CompanyID != in.CompanyID {
		return apperrors.NewBusinessRule("position belongs to a different company", map[string]any{
			"position_id": in.PositionID,
			"company_id":  in.CompanyID,
		})
	}

	if in.BranchID != nil {
		var branch models.Branch
		err = s.db.WithContext(ctx).
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

	if in.UserID != nil {
		if err := ensureLive(ctx, s.db, &models.User{}, *in.UserID, "user"); err != nil {
			return err
		}
	}

	if in.SupervisorID == nil {
		return nil
	}

	var supervisor models.Employee
	err = s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", *in.SupervisorID, false).
		First(&supervisor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("employee", *in.SupervisorID)
		}
		return apperrors.Wrap(err, "failed to load supervisor")
	}
	if supervisor.CompanyID != in.CompanyID {
		return apperrors.NewBusinessRule("supervisor belongs to a different company", map[string]any{
			"supervisor_id": *in.SupervisorID,
			"company_id":    in.CompanyID,
		})
	}

	return hierarchy.CheckLink(ctx, nodeID, *in.SupervisorID, hierarchy.DefaultMaxDepth, supervisorLookup(s.db))
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	var emp models.Employee
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("employee", id)
		}
		return nil, apperrors.Wrap(err, "failed to load employee")
	}
	return &emp, nil
}

// List returns live employees, restricted to the accessible business groups
// unless unrestricted is true.
func (s *EmployeeService) List(ctx context.Context, accessibleGroupIDs []uint, unrestricted bool) ([]models.Employee, error) {
	q := s.db.WithContext(ctx).Where("is_deleted = ?", false).Order("employee_code")
	if !unrestricted {
		if len(accessibleGroupIDs) == 0 {
			return []models.Employee{}, nil
		}
		q = q.Where("business_group_id IN ?", accessibleGroupIDs)
	}

	var employees []models.Employee
	if err := q.Find(&employees).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to list employees")
	}
	return employees, nil
}

// Subordinates returns the employee's direct reports.
func (s *EmployeeService) Subordinates(ctx context.Context, id uint) ([]models.Employee, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	var reports []models.Employee
	err := s.db.WithContext(ctx).
		Where("supervisor_id = ? AND is_deleted = ?", id, false).
		Order("employee_code").
		Find(&reports).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list subordinates")
	}
	return reports, nil
}

func (s *EmployeeService) Update(ctx context.Context, id uint, in EmployeeInput, actorID *uint) (*models.Employee, error) {
	if err := validateInput("employee", in); err != nil {
		return nil, err
	}

	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CompanyID != emp.CompanyID {
		return nil, apperrors.NewBusinessRule("an employee cannot move between companies", map[string]any{
			"employee_id": id,
		})
	}
	if err := s.checkReferences(ctx, id, in); err != nil {
		return nil, err
	}

	emp.UserID = in.UserID
	emp.BranchID = in.BranchID
	emp.DepartmentID = in.DepartmentID
	emp.PositionID = in.PositionID
	emp.SupervisorID = in.SupervisorID
	emp.EmployeeCode = in.EmployeeCode
	emp.HireDate = in.HireDate
	if in.EmploymentStatus != "" {
		emp.EmploymentStatus = in.EmploymentStatus
	}
	emp.UpdatedBy = actorID

	if err := s.db.WithContext(ctx).Save(emp).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("employee", "employee_code", in.EmployeeCode)
		}
		return nil, apperrors.Wrap(err, "failed to update employee")
	}
	return emp, nil
}

// Delete soft-deletes the employee unless active subordinates still report
// to them.
func (s *EmployeeService) Delete(ctx context.Context, id uint, actorID *uint) error {
	emp, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var reports int64
	err = s.db.WithContext(ctx).Model(&models.Employee{}).
		Where("supervisor_id = ? AND is_deleted = ?", id, false).
		Count(&reports).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to count subordinates")
	}
	if reports > 0 {
		return apperrors.NewBusinessRule("employee has active subordinates", map[string]any{
			"employee_id":  id,
			"subordinates": reports,
		})
	}

	emp.MarkDeleted(actorID, time.Now().UTC())
	if err := s.db.WithContext(ctx).Save(emp).Error; err != nil {
		return apperrors.Wrap(err, "failed to delete employee")
	}
	s.log.Info("employee deleted", zap.Uint("id", id))
	return nil
}
