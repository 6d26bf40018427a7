package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/validator"
)

// ensureLive verifies that a non-deleted row of the given model exists.
func ensureLive(ctx context.Context, db *gorm.DB, model any, id uint, entity string) error {
	var count int64
	err := db.WithContext(ctx).Model(model).
		Where("id = ? AND is_deleted = ?", id, false).
		Count(&count).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to verify "+entity)
	}
	if count == 0 {
		return apperrors.NewNotFound(entity, id)
	}
	return nil
}

// validateInput runs struct validation and converts failures into the
// structured validation error, reporting every violated field.
func validateInput(entity string, in any) error {
	err := validator.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.FieldErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.NewValidation(entity, fieldErrs.FieldMap())
	}
	return apperrors.Wrap(err, "validation failed")
}

// isUniqueConstraintError detects duplicate-key failures across the supported
// drivers so services can answer with a conflict instead of a 500.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	// sqlite has no exported error type through the pure-Go driver
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
