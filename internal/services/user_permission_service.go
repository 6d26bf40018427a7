package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/logger"
	"github.com/solvento/hrcore/pkg/metrics"
)

var allowedVerbs = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {}, "PATCH": {},
}

// PermissionMap is the wire shape for bulk grants: endpoint -> verb -> allowed.
type PermissionMap map[string]map[string]bool

// UserPermissionService manages individual endpoint grants and bulk
// replacement of a user's whole grant set.
type UserPermissionService struct {
	db    *gorm.DB
	audit *AuditService
	log   *zap.Logger
}

func NewUserPermissionService(db *gorm.DB, audit *AuditService) *UserPermissionService {
	return &UserPermissionService{
		db:    db,
		audit: audit,
		log:   logger.WithModule("user_permission_service"),
	}
}

// CreateGrantInput carries one new endpoint grant.
type CreateGrantInput struct {
	UserID   uint   `json:"user_id" validate:"required"`
	Endpoint string `json:"endpoint" validate:"required"`
	Method   string `json:"method" validate:"required"`
	Allowed  bool   `json:"allowed"`
}

func validateGrantShape(endpoint, method string, fields map[string]string, prefix string) {
	if !strings.HasPrefix(endpoint, "/api/") {
		fields[prefix+"endpoint"] = fmt.Sprintf("endpoint %q must start with /api/", endpoint)
	}
	if _, ok := allowedVerbs[method]; !ok {
		fields[prefix+"method"] = fmt.Sprintf("unsupported HTTP method %q", method)
	}
}

// Create adds a single grant for a user. The (endpoint, method) pair must be
// unique among the user's live grants.
func (s *UserPermissionService) Create(ctx context.Context, in CreateGrantInput, actorID *uint) (*models.UserPermission, error) {
	fields := map[string]string{}
	validateGrantShape(in.Endpoint, in.Method, fields, "")
	if len(fields) > 0 {
		return nil, apperrors.NewValidation("user permission", fields)
	}

	if err := s.ensureUserExists(ctx, in.UserID); err != nil {
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserPermission{}).
		Where("user_id = ? AND endpoint = ? AND method = ? AND is_deleted = ?",
			in.UserID, in.Endpoint, in.Method, false).
		Count(&count).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check for existing grant")
	}
	if count > 0 {
		return nil, apperrors.NewConflict("user permission", "endpoint", in.Method+" "+in.Endpoint)
	}

	grant := models.UserPermission{
		UserID:   in.UserID,
		Endpoint: in.Endpoint,
		Method:   in.Method,
		Allowed:  in.Allowed,
	}
	grant.IsActive = true
	grant.CreatedBy = actorID

	if err := s.db.WithContext(ctx).Create(&grant).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("user permission", "endpoint", in.Method+" "+in.Endpoint)
		}
		return nil, apperrors.Wrap(err, "failed to create grant")
	}

	s.audit.Record(ctx, actorID, "permission.create", grant.Endpoint, "ok", map[string]any{
		"user_id": in.UserID,
		"method":  in.Method,
		"allowed": in.Allowed,
	})
	return &grant, nil
}

// Update flips the allowed flag of an existing grant. Endpoint and method are
// immutable; replace the grant to retarget it.
func (s *UserPermissionService) Update(ctx context.Context, id uint, allowed bool, actorID *uint) (*models.UserPermission, error) {
	var grant models.UserPermission
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user permission", id)
		}
		return nil, apperrors.Wrap(err, "failed to load grant")
	}

	grant.Allowed = allowed
	grant.UpdatedBy = actorID
	if err := s.db.WithContext(ctx).Save(&grant).Error; err != nil {
		return nil, apperrors.Wrap(err, "failed to update grant")
	}

	s.audit.Record(ctx, actorID, "permission.update", grant.Endpoint, "ok", map[string]any{
		"grant_id": id,
		"allowed":  allowed,
	})
	return &grant, nil
}

// Delete soft-deletes one grant.
func (s *UserPermissionService) Delete(ctx context.Context, id uint, actorID *uint) error {
	var grant models.UserPermission
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("user permission", id)
		}
		return apperrors.Wrap(err, "failed to load grant")
	}

	grant.MarkDeleted(actorID, time.Now().UTC())
	if err := s.db.WithContext(ctx).Save(&grant).Error; err != nil {
		return apperrors.Wrap(err, "failed to delete grant")
	}

	s.audit.Record(ctx, actorID, "permission.delete", grant.Endpoint, "ok", map[string]any{
		"grant_id": id,
		"user_id":  grant.UserID,
	})
	return nil
}

// ListByUser returns the user's live grants ordered by endpoint then method.
func (s *UserPermissionService) ListByUser(ctx context.Context, userID uint) ([]models.UserPermission, error) {
	var grants []models.UserPermission
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("endpoint, method").
		Find(&grants).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grants")
	}
	return grants, nil
}

// PermissionsJSON folds a user's live grants into the nested endpoint -> verb
// -> allowed map the admin UI edits and ReplaceAll consumes.
func (s *UserPermissionService) PermissionsJSON(ctx context.Context, userID uint) (PermissionMap, error) {
	grants, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(PermissionMap, len(grants))
	for _, g := range grants {
		verbs, ok := out[g.Endpoint]
		if !ok {
			verbs = make(map[string]bool)
			out[g.Endpoint] = verbs
		}
		verbs[g.Method] = g.Allowed
	}
	return out, nil
}

// ReplaceAll swaps a user's entire grant set for the provided map. The whole
// payload is validated first, reporting every violation at once; only then
// does a single transaction soft-delete the existing grants and insert the
// replacements. Any failure rolls the whole operation back. Concurrent
// replacements are last-writer-wins.
func (s *UserPermissionService) ReplaceAll(ctx context.Context, userID uint, perms PermissionMap, actorID *uint) error {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return err
	}

	fields := map[string]string{}
	for endpoint, verbs := range perms {
		for method := range verbs {
			validateGrantShape(endpoint, method, fields, endpoint+".")
		}
	}
	if len(fields) > 0 {
		metrics.BulkReplacements.WithLabelValues("failure").Inc()
		return apperrors.NewValidation("user permissions", fields)
	}

	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UserPermission{}).
			Where("user_id = ? AND is_deleted = ?", userID, false).
			Updates(map[string]any{
				"is_deleted": true,
				"is_active":  false,
				"deleted_at": now,
				"deleted_by": actorID,
			})
		if res.Error != nil {
			return fmt.Errorf("retire existing grants: %w", res.Error)
		}

		for endpoint, verbs := range perms {
			for method, allowed := range verbs {
				grant := models.UserPermission{
					UserID:   userID,
					Endpoint: endpoint,
					Method:   method,
					Allowed:  allowed,
				}
				grant.IsActive = true
				grant.CreatedBy = actorID
				if err := tx.Create(&grant).Error; err != nil {
					return fmt.Errorf("insert grant %s %s: %w", method, endpoint, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		metrics.BulkReplacements.WithLabelValues("failure").Inc()
		s.audit.Record(ctx, actorID, "permission.replace_all", fmt.Sprintf("user:%d", userID), "failed", nil)
		return apperrors.Wrap(err, "failed to replace grants")
	}

	metrics.BulkReplacements.WithLabelValues("success").Inc()
	s.audit.Record(ctx, actorID, "permission.replace_all", fmt.Sprintf("user:%d", userID), "ok", map[string]any{
		"endpoints": len(perms),
	})
	s.log.Info("grants replaced",
		zap.Uint("user_id", userID),
		zap.Int("endpoints", len(perms)),
	)
	return nil
}

func (s *UserPermissionService) ensureUserExists(ctx context.Context, userID uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to verify user")
	}
	if count == 0 {
		return apperrors.NewNotFound("user", userID)
	}
	return nil
}
