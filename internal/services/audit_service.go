package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/logger"
)

// AuditService appends administrative actions to the audit trail.
type AuditService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db, log: logger.WithModule("audit_service")}
}

// Record writes one audit entry. Auditing must never break the operation it
// describes, so failures are logged and swallowed.
func (s *AuditService) Record(ctx context.Context, actorID *uint, action, resource, result string, metadata map[string]any) {
	entry := models.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Resource: resource,
		Result:   result,
	}

	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			s.log.Warn("audit metadata not serializable", zap.String("action", action), zap.Error(err))
		} else {
			entry.Metadata = datatypes.JSON(raw)
		}
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Error("failed to write audit entry",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err),
		)
	}
}

// ListRecent returns the newest audit entries up to limit.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.AuditLog
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	return entries, nil
}
