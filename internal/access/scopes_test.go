package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/database/testutil"
	"github.com/solvento/hrcore/internal/models"
)

func seedUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	u := models.User{Name: "t", Email: randomEmail(t), Password: "x", Role: role}
	u.IsActive = true
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func randomEmail(t *testing.T) string {
	t.Helper()
	return t.Name() + "@example.com"
}

func seedScope(t *testing.T, db *gorm.DB, scope models.UserScope) {
	t.Helper()
	scope.IsActive = true
	require.NoError(t, db.Create(&scope).Error)
}

func TestHasGlobalAccessAdminWithoutScopes(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin)

	global, err := HasGlobalAccess(context.Background(), db, admin)
	require.NoError(t, err)
	require.True(t, global)
}

func TestHasGlobalAccessFlipsWhenScopeAdded(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin)

	bg := models.BusinessGroup{Code: "BG1", Name: "Group One"}
	bg.IsActive = true
	require.NoError(t, db.Create(&bg).Error)

	seedScope(t, db, models.UserScope{
		UserID:          admin.ID,
		ScopeType:       models.ScopeBusinessGroup,
		BusinessGroupID: &bg.ID,
	})

	global, err := HasGlobalAccess(context.Background(), db, admin)
	require.NoError(t, err)
	require.False(t, global)

	// soft-deleting the scope restores global access
	require.NoError(t, db.Model(&models.UserScope{}).
		Where("user_id = ?", admin.ID).
		Update("is_deleted", true).Error)

	global, err = HasGlobalAccess(context.Background(), db, admin)
	require.NoError(t, err)
	require.True(t, global)
}

func TestHasGlobalAccessNeverForNonAdmins(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	manager := seedUser(t, db, models.RoleManager)

	global, err := HasGlobalAccess(context.Background(), db, manager)
	require.NoError(t, err)
	require.False(t, global)
}

func TestAccessibleBusinessGroupIDs(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	bg1 := models.BusinessGroup{Code: "BG1", Name: "One"}
	bg2 := models.BusinessGroup{Code: "BG2", Name: "Two"}
	require.NoError(t, db.Create(&bg1).Error)
	require.NoError(t, db.Create(&bg2).Error)

	co := models.Company{BusinessGroupID: bg2.ID, Code: "CO1", LegalName: "Acme"}
	require.NoError(t, db.Create(&co).Error)

	manager := seedUser(t, db, models.RoleManager)
	seedScope(t, db, models.UserScope{
		UserID:          manager.ID,
		ScopeType:       models.ScopeBusinessGroup,
		BusinessGroupID: &bg1.ID,
	})
	seedScope(t, db, models.UserScope{
		UserID:    manager.ID,
		ScopeType: models.ScopeCompany,
		CompanyID: &co.ID,
	})

	ids, all, err := AccessibleBusinessGroupIDs(context.Background(), db, manager)
	require.NoError(t, err)
	require.False(t, all)
	require.ElementsMatch(t, []uint{bg1.ID, bg2.ID}, ids)
}

func TestAccessibleBusinessGroupIDsUnrestrictedAdmin(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	admin := seedUser(t, db, models.RoleAdmin)

	ids, all, err := AccessibleBusinessGroupIDs(context.Background(), db, admin)
	require.NoError(t, err)
	require.True(t, all)
	require.Nil(t, ids)
}
