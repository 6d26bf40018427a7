package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/access"
	"github.com/solvento/hrcore/internal/middleware"
	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
)

// callerGroups resolves the authenticated caller's accessible business
// groups for list filtering.
func callerGroups(c *gin.Context, db *gorm.DB) ([]uint, bool, error) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return nil, false, apperrors.ErrUnauthorized
	}

	var user models.User
	err := db.WithContext(c.Request.Context()).
		Where("id = ? AND is_deleted = ?", userID, false).
		First(&user).Error
	if err != nil {
		return nil, false, apperrors.ErrUnauthorized.WithInternal(err)
	}

	return access.AccessibleBusinessGroupIDs(c.Request.Context(), db, &user)
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewBadRequest("invalid id " + strconv.Quote(raw))
	}
	return uint(id), nil
}

// queryUint parses an optional unsigned query parameter, returning 0 when absent.
func queryUint(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewBadRequest("invalid " + name + " " + strconv.Quote(raw))
	}
	return uint(v), nil
}
