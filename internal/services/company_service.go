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

// CompanyService manages companies within a business group.
type CompanyService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db, log: logger.WithModule("company_service")}
}

type CompanyInput struct {
	BusinessGroupID uint   `json:"business_group_id" validate:"required"`
	Code            string `json:"code" validate:"required,max=32"`
	LegalName       string `json:"legal_name" validate:"required,max=255"`
	TradeName       string `json:"trade_name" validate:"max=255"`
}

func (s *CompanyService) Create(ctx context.Context, in CompanyInput, actorID *uint) (*models.Company, error) {
	if err := validateInput("company", in); err != nil {
		return nil, err
	}
	if err := ensureLive(ctx, s.db, &models.BusinessGroup{}, in.BusinessGroupID, "business group"); err != nil {
		return nil, err
	}

	company := models.Company{
		BusinessGroupID: in.BusinessGroupID,
		Code:            in.Code,
		LegalName:       in.LegalName,
		TradeName:       in.TradeName,
	}
	company.IsActive = true
	company.CreatedBy = actorID

	if err := s.db.WithContext(ctx).Create(&company).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("company", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to create company")
	}
	return &company, nil
}

func (s *CompanyService) Get(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("company", id)
		}
		return nil, apperrors.Wrap(err, "failed to load company")
	}
	return &company, nil
}

// List returns live companies, restricted to the accessible business groups
// unless unrestricted is true.
func (s *CompanyService) List(ctx context.Context, accessibleGroupIDs []uint, unrestricted bool) ([]models.Company, error) {
	q := s.db.WithContext(ctx).Where("is_deleted = ?", false).Order("code")
	if !unrestricted {
		if len(accessibleGroupIDs) == 0 {
			return []models.Company{}, nil
		}
		q = q.Where("business_group_id IN ?", accessibleGroupIDs)
	}

	var companies []models.Company
	if err := q.Find(&companies).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to list companies")
	}
	return companies, nil
}

func (s *CompanyService) Update(ctx context.Context, id uint, in CompanyInput, actorID *uint) (*models.Company, error) {
	if err := validateInput("company", in); err != nil {
		return nil, err
	}

	company, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.BusinessGroupID != company.BusinessGroupID {
		if err := ensureLive(ctx, s.db, &models.BusinessGroup{}, in.BusinessGroupID, "business group"); err != nil {
			return nil, err
		}
	}

	company.BusinessGroupID = in.BusinessGroupID
	company.Code = in.Code
	company.LegalName = in.LegalName
	company.TradeName = in.TradeName
	company.UpdatedBy = actorID

	if err := s.db.WithContext(ctx).Save(company).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("company", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to update company")
	}
	return company, nil
}

// Delete soft-deletes the company unless live branches, departments or
// employees still hang off it.
func (s *CompanyService) Delete(ctx context.Context, id uint, actorID *uint) error {
	company, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	dependents := map[string]any{}
	for entity, model := range map[string]any{
		"branches":    &models.Branch{},
		"departments": &models.Department{},
		"employees":   &models.Employee{},
	} {
		var count int64
		err := s.db.WithContext(ctx).Model(model).
			Where("company_id = ? AND is_deleted = ?", id, false).
			Count(&count).Error
		if err != nil {
			return apperrors.Wrap(err, "failed to count company dependents")
		}
		if count > 0 {
			dependents[entity] = count
		}
	}
	if len(dependents) > 0 {
		dependents["company_id"] = id
		return apperrors.NewBusinessRule("company has active dependents", dependents)
	}

	company.MarkDeleted(actorID, time.Now().UTC())
	if err := s.db.WithContext(ctx).Save(company).Error; err != nil {
		return apperrors.Wrap(err, "failed to delete company")
	}
	s.log.Info("company deleted", zap.Uint("id", id))
	return nil
}
