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

// BusinessGroupService manages the top level of the organizational tree.
type BusinessGroupService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewBusinessGroupService(db *gorm.DB) *BusinessGroupService {
	return &BusinessGroupService{db: db, log: logger.WithModule("business_group_service")}
}

type BusinessGroupInput struct {
	Code string `json:"code" validate:"required,max=32"`
	Name string `json:"name" validate:"required,max=255"`
}

func (s *BusinessGroupService) Create(ctx context.Context, in BusinessGroupInput, actorID *uint) (*models.BusinessGroup, error) {
	if err := validateInput("business group", in); err != nil {
		return nil, err
	}

	group := models.BusinessGroup{Code: in.Code, Name: in.Name}
	group.IsActive = true
	group.CreatedBy = actorID

	if err := s.db.WithContext(ctx).Create(&group).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("business group", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to create business group")
	}
	return &group, nil
}

func (s *BusinessGroupService) Get(ctx context.Context, id uint) (*models.BusinessGroup, error) {
	var group models.BusinessGroup
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("business group", id)
		}
		return nil, apperrors.Wrap(err, "failed to load business group")
	}
	return &group, nil
}

// List returns live business groups, restricted to accessibleIDs unless
// unrestricted is true.
func (s *BusinessGroupService) List(ctx context.Context, accessibleIDs []uint, unrestricted bool) ([]models.BusinessGroup, error) {
	q := s.db.WithContext(ctx).Where("is_deleted = ?", false).Order("code")
	if !unrestricted {
		if len(accessibleIDs) == 0 {
			return []models.BusinessGroup{}, nil
		}
		q = q.Where("id IN ?", accessibleIDs)
	}

	var groups []models.BusinessGroup
	if err := q.Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to list business groups")
	}
	return groups, nil
}

func (s *BusinessGroupService) Update(ctx context.Context, id uint, in BusinessGroupInput, actorID *uint) (*models.BusinessGroup, error) {
	if err := validateInput("business group", in); err != nil {
		return nil, err
	}

	group, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	group.Code = in.Code
	group.Name = in.Name
	group.UpdatedBy = actorID

	if err := s.db.WithContext(ctx).Save(group).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("business group", "code", in.Code)
		}
		return nil, apperrors.Wrap(err, "failed to update business group")
	}
	return group, nil
}

// Delete soft-deletes the group. Groups with live companies cannot be removed.
func (s *BusinessGroupService) Delete(ctx context.Context, id uint, actorID *uint) error {
	group, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	var companies int64
	err = s.db.WithContext(ctx).Model(&models.Company{}).
		Where("business_group_id = ? AND is_deleted = ?", id, false).
		Count(&companies).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to count companies")
	}
	if companies > 0 {
		return apperrors.NewBusinessRule("business group has active companies", map[string]any{
			"business_group_id": id,
			"companies":         companies,
		})
	}

	group.MarkDeleted(actorID, time.Now().UTC())
	if err := s.db.WithContext(ctx).Save(group).Error; err != nil {
		return apperrors.Wrap(err, "failed to delete business group")
	}
	s.log.Info("business group deleted", zap.Uint("id", id))
	return nil
}
