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

// PositionService manages job titles within a company.
type PositionService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPositionService(db *gorm.DB) *PositionService {
	return &PositionService{db: db, log: logger.WithModule("position_service")}
}

type PositionInput struct {
	CompanyID uint   `json:"company_id" validate:"required"`
	Code      string `json:"code" validate:"required,max=32"`
	Title     string `json:"title" validate:"required,max=255"`
}

func (s *PositionService) Create(ctx context.Context, in PositionInput, actorID *uint) (*models.Position, error) {
	if err := validateInput("position", in); err != nil {
		return nil, err
	}
	if err := ensureLive(ctx, s.db, &models.Company{}, in.CompanyID, "company"); err != nil {
		return nil, err
	}

	position := models.Position{CompanyID: in.CompanyID, Code: in.Code, Title: in.Title}
	position.IsActive = true
	position.CreatedBy = actorID

	if err := s.db.WithContext(ctx).Create(&position).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("position", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to create position")
	}
	return &position, nil
}

func (s *PositionService) Get(ctx context.Context, id uint) (*models.Position, error) {
	var position models.Position
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&position).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("position", id)
		}
		return nil, apperrors.Wrap(err, "failed to load position")
	}
	return &position, nil
}

func (s *PositionService) ListByCompany(ctx context.Context, companyID uint) ([]models.Position, error) {
	var positions []models.Position
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND is_deleted = ?", companyID, false).
		Order("code").
		Find(&positions).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list positions")
	}
	return positions, nil
}

func (s *PositionService) Update(ctx context.Context, id uint, in PositionInput, actorID *uint) (*models.Position, error) {
	if err := validateInput("position", in); err != nil {
		return nil, err
	}

	position, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CompanyID != position.CompanyID {
		return nil, apperrors.NewBusinessRule("a position cannot move between companies", map[string]any{
			"position_id": id,
		})
	}

	position.Code = in.Code
	position.Title = in.Title
	position.UpdatedBy = actorID

	if err := s.db.WithContext(ctx).Save(position).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("position", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to update position")
	}
	return position, nil
}

// Delete soft-deletes the position unless live employees still hold it.
func (s *PositionService) Delete(ctx context.Context, id uint, actorID *uint) error {
	position, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var employees int64
	err = s.db.WithContext(ctx).Model(&models.Employee{}).
		Where("position_id = ? AND is_deleted = ?", id, false).
		Count(&employees).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to count position holders")
	}
	if employees > 0 {
		return apperrors.NewBusinessRule("position is held by active employees", map[string]any{
			"position_id": id,
			"employees":   employees,
		})
	}

	position.MarkDeleted(actorID, time.Now().UTC())
	if err := s.db.WithContext(ctx).Save(position).Error; err != nil {
		return apperrors.Wrap(err, "failed to delete position")
	}
	s.log.Info("position deleted", zap.Uint("id", id))
	return nil
}
