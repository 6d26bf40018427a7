package access

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/endpoints"
	"github.com/solvento/hrcore/internal/models"
	"github.com/solvento/hrcore/pkg/logger"
)

// Source records which rule produced an access decision.
type Source string

const (
	SourceExact   Source = "exact"
	SourceBase    Source = "base"
	SourceDefault Source = "default"
)

// Decision is the outcome of a permission lookup.
type Decision struct {
	Allowed  bool
	Endpoint string
	Source   Source
}

// Resolver answers "may this user call this endpoint with this method". A
// grant on the concrete path wins outright, even when it denies; otherwise
// the base endpoint's grant applies; otherwise the request is denied.
type Resolver struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db, log: logger.WithModule("access")}
}

// Resolve never returns an error: lookup failures log and fall through to the
// default denial so a storage hiccup can only ever fail closed.
func (r *Resolver) Resolve(ctx context.Context, userID uint, path, method string) Decision {
	if grant, ok := r.lookup(ctx, userID, path, method); ok {
		return Decision{Allowed: grant.Allowed, Endpoint: path, Source: SourceExact}
	}

	base := endpoints.Normalize(path)
	if base != path {
		if grant, ok := r.lookup(ctx, userID, base, method); ok {
			return Decision{Allowed: grant.Allowed, Endpoint: base, Source: SourceBase}
		}
	}

	return Decision{Allowed: false, Endpoint: base, Source: SourceDefault}
}

func (r *Resolver) lookup(ctx context.Context, userID uint, endpoint, method string) (*models.UserPermission, bool) {
	var grant models.UserPermission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ? AND method = ? AND is_deleted = ? AND is_active = ?",
			userID, endpoint, method, false, true).
		First(&grant).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("grant lookup failed, denying",
				zap.Uint("user_id", userID),
				zap.String("endpoint", endpoint),
				zap.String("method", method),
				zap.Error(err),
			)
		}
		return nil, false
	}
	return &grant, true
}
