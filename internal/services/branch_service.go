package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/logger"
)

// BranchService manages the physical sites of a company.
type BranchService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewBranchService(db *gorm.DB) *BranchService {
	return &BranchService{db: db, log: logger.WithModule("branch_service")}
}

type BranchInput struct {
	CompanyID uint   `json:"company_id" validate:"required"`
	Code      string `json:"code" validate:"required,max=32"`
	Name      string `json:"name" validate:"required,max=255"`
}

func (s *BranchService) Create(ctx context.Context, in BranchInput, actorID *uint) (*models.Branch, error) {
	if err := validateInput("branch", in); err != nil {
		return nil, err
	}
	if err := ensureLive(ctx, s.db, &models.Company{}, in.CompanyID, "company"); err != nil {
		return nil, err
	}

	branch := models.Branch{CompanyID: in.CompanyID, Code: in.Code, Name: in.Name}
	branch.IsActive = true
	branch.CreatedBy = actorID

	if err := s.db.WithContext(ctx).Create(&branch).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("branch", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to create branch")
	}
	return &branch, nil
}

func (s *BranchService) Get(ctx context.Context, id uint) (*models.Branch, error) {
	var branch models.Branch
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&branch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("branch", id)
		}
		return nil, apperrors.Wrap(err, "failed to load branch")
	}
	return &branch, nil
}

func (s *BranchService) ListByCompany(ctx context.Context, companyID uint) ([]models.Branch, error) {
	var branches []models.Branch
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND is_deleted = ?", companyID, false).
		Order("code").
		Find(&branches).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list branches")
	}
	return branches, nil
}

func (s *BranchService) Update(ctx context.Context, id uint, in BranchInput, actorID *uint) (*models.Branch, error) {
	if err := validateInput("branch", in); err != nil {
		return nil, err
	}

	branch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CompanyID != branch.CompanyID {
		return nil, apperrors.NewBusinessRule("a branch cannot move between companies", map[string]any{
			"branch_id": id,
		})
	}

	branch.Code = in.Code
	branch.Name = in.Name
	branch.UpdatedBy = actorID

	if err := s.db.WithContext(ctx).Save(branch).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("branch", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to update branch")
	}
	return branch, nil
}

// Delete soft-deletes the branch unless live departments or employees remain
// attached to it.
func (s *BranchService) Delete(ctx context.Context, id uint, actorID *uint) error {
	branch, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	for entity, model := range map[string]any{
		"department": &models.Department{},
		"employee":   &models.Employee{},
	} {
		var count int64
		err := s.db.WithContext(ctx).Model(model).
			Where("branch_id = ? AND is_deleted = ?", id, false).
			Count(&count).Error
		if err != nil {
			return apperrors.Wrap(err, "failed to count branch dependents")
		}
		if count > 0 {
			return apperrors.NewBusinessRule("branch has active "+entity+"s", map[string]any{
				"branch_id": id,
				"count":     count,
			})
		}
	}

	branch.MarkDeleted(actorID, time.Now().UTC())
	if err := s.db.WithContext(ctx).Save(branch).Error; err != nil {
		return apperrors.Wrap(err, "failed to delete branch")
	}
	s.log.Info("branch deleted", zap.Uint("id", id))
	return nil
}
