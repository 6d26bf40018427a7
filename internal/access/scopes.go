package access

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/models"
)

// HasGlobalAccess reports whether the user operates without organizational
// boundaries: an administrator with no active scope assignments sees
// everything. The flag is derived on every call, never stored, so adding a
// scope to an admin immediately confines them.
func HasGlobalAccess(ctx context.Context, db *gorm.DB, user *models.User) (bool, error) {
	if user.Role != models.RoleAdmin {
		return false, nil
	}

	var count int64
	err := db.WithContext(ctx).Model(&models.UserScope{}).
		Where("user_id = ? AND is_deleted = ? AND is_active = ?", user.ID, false, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count user scopes: %w", err)
	}
	return count == 0, nil
}

// AccessibleBusinessGroupIDs resolves the set of business groups the user may
// touch. The boolean result is true when the user is unrestricted, in which
// case the slice is nil and callers skip filtering entirely.
func AccessibleBusinessGroupIDs(ctx context.Context, db *gorm.DB, user *models.User) ([]uint, bool, error) {
	global, err := HasGlobalAccess(ctx, db, user)
	if err != nil {
		return nil, false, err
	}
	if global {
		return nil, true, nil
	}

	var scopes []models.UserScope
	err = db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ? AND is_active = ?", user.ID, false, true).
		Find(&scopes).Error
	if err != nil {
		return nil, false, fmt.Errorf("load user scopes: %w", err)
	}

	seen := make(map[uint]struct{})
	for _, scope := range scopes {
		switch scope.ScopeType {
		case models.ScopeGlobal:
			return nil, true, nil
		case models.ScopeBusinessGroup:
			if scope.BusinessGroupID != nil {
				seen[*scope.BusinessGroupID] = struct{}{}
			}
		case models.ScopeCompany:
			if scope.CompanyID == nil {
				continue
			}
			id, err := businessGroupOfCompany(ctx, db, *scope.CompanyID)
			if err != nil {
				return nil, false, err
			}
			if id != 0 {
				seen[id] = struct{}{}
			}
		case models.ScopeBranch:
			if scope.BranchID == nil {
				continue
			}
			var branch models.Branch
			if err := findLive(ctx, db, *scope.BranchID, &branch); err != nil {
				return nil, false, fmt.Errorf("load branch %d: %w", *scope.BranchID, err)
			}
			if branch.ID == 0 {
				continue
			}
			id, err := businessGroupOfCompany(ctx, db, branch.CompanyID)
			if err != nil {
				return nil, false, err
			}
			if id != 0 {
				seen[id] = struct{}{}
			}
		case models.ScopeDepartment:
			if scope.DepartmentID == nil {
				continue
			}
			var dept models.Department
			if err := findLive(ctx, db, *scope.DepartmentID, &dept); err != nil {
				return nil, false, fmt.Errorf("load department %d: %w", *scope.DepartmentID, err)
			}
			if dept.ID == 0 {
				continue
			}
			id, err := businessGroupOfCompany(ctx, db, dept.CompanyID)
			if err != nil {
				return nil, false, err
			}
			if id != 0 {
				seen[id] = struct{}{}
			}
		}
	}

	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids, false, nil
}

func businessGroupOfCompany(ctx context.Context, db *gorm.DB, companyID uint) (uint, error) {
	var company models.Company
	if err := findLive(ctx, db, companyID, &company); err != nil {
		return 0, fmt.Errorf("load company %d: %w", companyID, err)
	}
	return company.BusinessGroupID, nil
}

// findLive loads a non-deleted row by id into dest, leaving dest zero-valued
// when no such row exists.
func findLive(ctx context.Context, db *gorm.DB, id uint, dest any) error {
	err := db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		Limit(1).Find(dest).Error
	return err
}
