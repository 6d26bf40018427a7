package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/logger"
)

// allowedScopesByRole is the role/scope compatibility table. Admins may carry
// any scope (or none, which makes them global); collaborators and guests may
// carry none at all.
var allowedScopesByRole = map[models.Role][]models.ScopeType{
	models.RoleAdmin: {
		models.ScopeGlobal, models.ScopeBusinessGroup, models.ScopeCompany,
		models.ScopeBranch, models.ScopeDepartment,
	},
	models.RoleManager: {
		models.ScopeBusinessGroup, models.ScopeCompany, models.ScopeBranch,
	},
	models.RoleSupervisor: {
		models.ScopeDepartment,
	},
}

// UserScopeService manages the organizational boundaries attached to users.
type UserScopeService struct {
	db    *gorm.DB
	audit *AuditService
	log   *zap.Logger
}

func NewUserScopeService(db *gorm.DB, audit *AuditService) *UserScopeService {
	return &UserScopeService{
		db:    db,
		audit: audit,
		log:   logger.WithModule("user_scope_service"),
	}
}

// CreateScopeInput carries a new scope assignment. Exactly one entity id must
// be set, matching ScopeType; GLOBAL takes none.
type CreateScopeInput struct {
	UserID          uint             `json:"user_id" validate:"required"`
	ScopeType       models.ScopeType `json:"scope_type" validate:"required"`
	BusinessGroupID *uint            `json:"business_group_id"`
	CompanyID       *uint            `json:"company_id"`
	BranchID        *uint            `json:"branch_id"`
	DepartmentID    *uint            `json:"department_id"`
}

// Create validates a scope assignment against the role table, entity
// exclusivity, referential integrity, and duplicates, then persists it.
func (s *UserScopeService) Create(ctx context.Context, in CreateScopeInput, actorID *uint) (*models.UserScope, error) {
	if err := validateInput("user scope", in); err != nil {
		return nil, err
	}
	if !in.ScopeType.Valid() {
		return nil, apperrors.NewValidation("user scope", map[string]string{
			"scope_type": fmt.Sprintf("unknown scope type %q", in.ScopeType),
		})
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", in.UserID, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user", in.UserID)
		}
		return nil, apperrors.Wrap(err, "failed to load user")
	}

	if err := s.checkRoleAllowsScope(user.Role, in.ScopeType); err != nil {
		return nil, err
	}
	if err := s.checkEntityExclusivity(in); err != nil {
		return nil, err
	}
	if err := s.checkEntityExists(ctx, in); err != nil {
		return nil, err
	}

	scope := models.UserScope{
		UserID:          in.UserID,
		ScopeType:       in.ScopeType,
		BusinessGroupID: in.BusinessGroupID,
		CompanyID:       in.CompanyID,
		BranchID:        in.BranchID,
		DepartmentID:    in.DepartmentID,
	}
	scope.IsActive = true
	scope.CreatedBy = actorID

	if err := s.checkDuplicate(ctx, &scope); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&scope).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("user scope", "assignment", string(in.ScopeType))
		}
		return nil, apperrors.Wrap(err, "failed to create user scope")
	}

	s.audit.Record(ctx, actorID, "scope.create", fmt.Sprintf("user:%d", in.UserID), "ok", map[string]any{
		"scope_type": in.ScopeType,
	})
	s.log.Info("scope assigned",
		zap.Uint("user_id", in.UserID),
		zap.String("scope_type", string(in.ScopeType)),
	)
	return &scope, nil
}

// checkRoleAllowsScope enforces the role/scope table. Collaborators and
// guests hold no scopes at all, which is a business-rule failure rather than
// a malformed request.
func (s *UserScopeService) checkRoleAllowsScope(role models.Role, scopeType models.ScopeType) error {
	allowed, ok := allowedScopesByRole[role]
	if !ok {
		return apperrors.NewBusinessRule(
			fmt.Sprintf("role %s cannot hold scope assignments", role),
			map[string]any{"role": role.String()},
		)
	}
	for _, st := range allowed {
		if st == scopeType {
			return nil
		}
	}
	return apperrors.NewBusinessRule(
		fmt.Sprintf("role %s cannot hold a %s scope", role, scopeType),
		map[string]any{"role": role.String(), "scope_type": string(scopeType)},
	)
}

// checkEntityExclusivity requires exactly the entity id matching the scope
// type: no more, no fewer. GLOBAL carries none.
func (s *UserScopeService) checkEntityExclusivity(in CreateScopeInput) error {
	fields := map[string]string{}
	want := map[models.ScopeType]string{
		models.ScopeBusinessGroup: "business_group_id",
		models.ScopeCompany:       "company_id",
		models.ScopeBranch:        "branch_id",
		models.ScopeDepartment:    "department_id",
	}

	set := map[string]bool{
		"business_group_id": in.BusinessGroupID != nil,
		"company_id":        in.CompanyID != nil,
		"branch_id":         in.BranchID != nil,
		"department_id":     in.DepartmentID != nil,
	}

	required := want[in.ScopeType] // empty for GLOBAL
	for field, populated := range set {
		switch {
		case field == required && !populated:
			fields[field] = fmt.Sprintf("required for scope type %s", in.ScopeType)
		case field != required && populated:
			fields[field] = fmt.Sprintf("must not be set for scope type %s", in.ScopeType)
		}
	}

	if len(fields) > 0 {
		return apperrors.NewValidation("user scope", fields)
	}
	return nil
}

func (s *UserScopeService) checkEntityExists(ctx context.Context, in CreateScopeInput) error {
	var (
		entity string
		id     *uint
		model  any
	)
	switch in.ScopeType {
	case models.ScopeBusinessGroup:
		entity, id, model = "business group", in.BusinessGroupID, &models.BusinessGroup{}
	case models.ScopeCompany:
		entity, id, model = "company", in.CompanyID, &models.Company{}
	case models.ScopeBranch:
		entity, id, model = "branch", in.BranchID, &models.Branch{}
	case models.ScopeDepartment:
		entity, id, model = "department", in.DepartmentID, &models.Department{}
	default:
		return nil
	}

	var count int64
	err := s.db.WithContext(ctx).Model(model).
		Where("id = ? AND is_deleted = ?", *id, false).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to verify scope entity")
	}
	if count == 0 {
		return apperrors.NewNotFound(entity, *id)
	}
	return nil
}

func (s *UserScopeService) checkDuplicate(ctx context.Context, scope *models.UserScope) error {
	q := s.db.WithContext(ctx).Model(&models.UserScope{}).
		Where("user_id = ? AND scope_type = ? AND is_deleted = ?",
			scope.UserID, scope.ScopeType, false)

	if entityID := scope.EntityID(); entityID != nil {
		column := map[models.ScopeType]string{
			models.ScopeBusinessGroup: "business_group_id",
			models.ScopeCompany:       "company_id",
			models.ScopeBranch:        "branch_id",
			models.ScopeDepartment:    "department_id",
		}[scope.ScopeType]
		q = q.Where(column+" = ?", *entityID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(err, "failed to check for duplicate scope")
	}
	if count > 0 {
		return apperrors.NewConflict("user scope", "assignment", string(scope.ScopeType))
	}
	return nil
}

// ListByUser returns the user's active scope assignments.
func (s *UserScopeService) ListByUser(ctx context.Context, userID uint) ([]models.UserScope, error) {
	var scopes []models.UserScope
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("id").
		Find(&scopes).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list user scopes")
	}
	return scopes, nil
}

// Delete soft-deletes one scope assignment.
func (s *UserScopeService) Delete(ctx context.Context, id uint, actorID *uint) error {
	var scope models.UserScope
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&scope).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("user scope", id)
		}
		return apperrors.Wrap(err, "failed to load user scope")
	}

	scope.MarkDeleted(actorID, time.Now().UTC())
	if err := s.db.WithContext(ctx).Save(&scope).Error; err != nil {
		return apperrors.Wrap(err, "failed to delete user scope")
	}

	s.audit.Record(ctx, actorID, "scope.delete", fmt.Sprintf("user:%d", scope.UserID), "ok", map[string]any{
		"scope_type": scope.ScopeType,
	})
	s.log.Info("scope removed",
		zap.Uint("scope_id", id),
		zap.Uint("user_id", scope.UserID),
	)
	return nil
}
