package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/database/testutil"
	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
)

func newPermissionFixture(t *testing.T) (*gorm.DB, *UserPermissionService, *models.User) {
	t.Helper()
	db := testutil.MustOpenTestDB(t)
	svc := NewUserPermissionService(db, NewAuditService(db))

	user := models.User{Name: "Eva", Email: "eva@example.com", Password: "x", Role: models.RoleManager}
	user.IsActive = true
	require.NoError(t, db.Create(&user).Error)
	return db, svc, &user
}

func liveGrants(t *testing.T, db *gorm.DB, userID uint) []models.UserPermission {
	t.Helper()
	var grants []models.UserPermission
	require.NoError(t, db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("endpoint, method").Find(&grants).Error)
	return grants
}

func TestCreateGrantRejectsBadShape(t *testing.T) {
	_, svc, user := newPermissionFixture(t)

	_, err := svc.Create(context.Background(), CreateGrantInput{
		UserID:   user.ID,
		Endpoint: "/internal/debug",
		Method:   "TRACE",
		Allowed:  true,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsValidation(err))

	// both violations reported together
	appErr := apperrors.FromError(err)
	require.Len(t, appErr.Fields, 2)
}

func TestCreateGrantDuplicateConflict(t *testing.T) {
	_, svc, user := newPermissionFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateGrantInput{UserID: user.ID, Endpoint: "/api/v1/users", Method: "GET", Allowed: true}, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateGrantInput{UserID: user.ID, Endpoint: "/api/v1/users", Method: "GET", Allowed: false}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsConflict(err))
}

func TestCreateGrantUnknownUser(t *testing.T) {
	_, svc, _ := newPermissionFixture(t)

	_, err := svc.Create(context.Background(), CreateGrantInput{
		UserID: 9999, Endpoint: "/api/v1/users", Method: "GET", Allowed: true,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsNotFound(err))
}

func TestUpdateGrantOnlyFlipsAllowed(t *testing.T) {
	_, svc, user := newPermissionFixture(t)
	ctx := context.Background()

	grant, err := svc.Create(ctx, CreateGrantInput{UserID: user.ID, Endpoint: "/api/v1/users", Method: "GET", Allowed: true}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, grant.ID, false, nil)
	require.NoError(t, err)
	require.False(t, updated.Allowed)
	require.Equal(t, grant.Endpoint, updated.Endpoint)
	require.Equal(t, grant.Method, updated.Method)
}

func TestReplaceAllSwapsGrantSet(t *testing.T) {
	db, svc, user := newPermissionFixture(t)
	ctx := context.Background()
	actor := uint(42)

	_, err := svc.Create(ctx, CreateGrantInput{UserID: user.ID, Endpoint: "/api/v1/users", Method: "GET", Allowed: true}, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateGrantInput{UserID: user.ID, Endpoint: "/api/v1/users", Method: "POST", Allowed: true}, nil)
	require.NoError(t, err)

	err = svc.ReplaceAll(ctx, user.ID, PermissionMap{
		"/api/v1/employees": {"GET": true, "DELETE": false},
	}, &actor)
	require.NoError(t, err)

	grants := liveGrants(t, db, user.ID)
	require.Len(t, grants, 2)
	for _, g := range grants {
		require.Equal(t, "/api/v1/employees", g.Endpoint)
		require.NotNil(t, g.CreatedBy)
		require.Equal(t, actor, *g.CreatedBy)
	}

	// old grants are retired, not erased
	var retired int64
	require.NoError(t, db.Model(&models.UserPermission{}).
		Where("user_id = ? AND is_deleted = ?", user.ID, true).
		Count(&retired).Error)
	require.EqualValues(t, 2, retired)
}

func TestReplaceAllValidatesBeforeTouchingAnything(t *testing.T) {
	db, svc, user := newPermissionFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateGrantInput{UserID: user.ID, Endpoint: "/api/v1/users", Method: "GET", Allowed: true}, nil)
	require.NoError(t, err)

	err = svc.ReplaceAll(ctx, user.ID, PermissionMap{
		"/api/v1/employees": {"GET": true},
		"/etc/passwd":       {"HEAD": true}, // two violations in one entry
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsValidation(err))

	appErr := apperrors.FromError(err)
	require.Len(t, appErr.Fields, 2)

	// the existing grant set is untouched
	grants := liveGrants(t, db, user.ID)
	require.Len(t, grants, 1)
	require.Equal(t, "/api/v1/users", grants[0].Endpoint)
	require.True(t, grants[0].Allowed)
}

func TestReplaceAllRollsBackWhenAnInsertFails(t *testing.T) {
	db, svc, user := newPermissionFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.ReplaceAll(ctx, user.ID, PermissionMap{
		"/api/v1/users": {"GET": true, "POST": true},
	}, nil))

	// refuse one of the replacement inserts mid-transaction
	err := db.Callback().Create().Before("gorm:create").Register("refuse_marked_grant", func(tx *gorm.DB) {
		if grant, ok := tx.Statement.Dest.(*models.UserPermission); ok && grant.Endpoint == "/api/v1/positions" {
			_ = tx.AddError(errors.New("insert refused"))
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Callback().Create().Remove("refuse_marked_grant") })

	err = svc.ReplaceAll(ctx, user.ID, PermissionMap{
		"/api/v1/business-groups": {"GET": true},
		"/api/v1/companies":       {"GET": true},
		"/api/v1/positions":       {"GET": true},
		"/api/v1/branches":        {"GET": true},
		"/api/v1/departments":     {"GET": true},
	}, nil)
	require.Error(t, err)

	// the pre-update grant set survives: the retires rolled back and none of
	// the replacement rows stuck
	grants := liveGrants(t, db, user.ID)
	require.Len(t, grants, 2)
	require.Equal(t, "/api/v1/users", grants[0].Endpoint)
	require.Equal(t, "/api/v1/users", grants[1].Endpoint)

	var total int64
	require.NoError(t, db.Model(&models.UserPermission{}).
		Where("user_id = ?", user.ID).
		Count(&total).Error)
	require.EqualValues(t, 2, total)

	out, err := svc.PermissionsJSON(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, out["/api/v1/users"]["GET"])
	require.True(t, out["/api/v1/users"]["POST"])
}

func TestReplaceAllWithEmptyMapClearsGrants(t *testing.T) {
	db, svc, user := newPermissionFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateGrantInput{UserID: user.ID, Endpoint: "/api/v1/users", Method: "GET", Allowed: true}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.ReplaceAll(ctx, user.ID, PermissionMap{}, nil))
	require.Empty(t, liveGrants(t, db, user.ID))
}

func TestPermissionsJSONGroupsByEndpoint(t *testing.T) {
	_, svc, user := newPermissionFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.ReplaceAll(ctx, user.ID, PermissionMap{
		"/api/v1/users":     {"GET": true, "POST": false},
		"/api/v1/employees": {"GET": true},
	}, nil))

	out, err := svc.PermissionsJSON(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.True(t, out["/api/v1/users"]["GET"])
	require.False(t, out["/api/v1/users"]["POST"])
	require.True(t, out["/api/v1/employees"]["GET"])
}
