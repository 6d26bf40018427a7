package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/database/testutil"
	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
)

type scopeFixture struct {
	db    *gorm.DB
	svc   *UserScopeService
	bg    models.BusinessGroup
	co    models.Company
	br    models.Branch
	dept  models.Department
	users map[models.Role]*models.User
}

func newScopeFixture(t *testing.T) *scopeFixture {
	t.Helper()
	db := testutil.MustOpenTestDB(t)
	f := &scopeFixture{db: db, svc: NewUserScopeService(db, NewAuditService(db)), users: map[models.Role]*models.User{}}

	f.bg = models.BusinessGroup{Code: "BG", Name: "Group"}
	require.NoError(t, db.Create(&f.bg).Error)
	f.co = models.Company{BusinessGroupID: f.bg.ID, Code: "CO", LegalName: "Acme"}
	require.NoError(t, db.Create(&f.co).Error)
	f.br = models.Branch{CompanyID: f.co.ID, Code: "BR", Name: "North"}
	require.NoError(t, db.Create(&f.br).Error)
	branchID := f.br.ID
	f.dept = models.Department{CompanyID: f.co.ID, BranchID: &branchID, Code: "ENG", Name: "Engineering"}
	require.NoError(t, db.Create(&f.dept).Error)

	for role, email := range map[models.Role]string{
		models.RoleAdmin:        "admin@example.com",
		models.RoleManager:      "manager@example.com",
		models.RoleSupervisor:   "supervisor@example.com",
		models.RoleCollaborator: "collab@example.com",
		models.RoleGuest:        "guest@example.com",
	} {
		u := models.User{Name: role.String(), Email: email, Password: "x", Role: role}
		u.IsActive = true
		require.NoError(t, db.Create(&u).Error)
		f.users[role] = &u
	}
	return f
}

func TestScopeRoleTable(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()

	// manager: business group ok, department forbidden
	_, err := f.svc.Create(ctx, CreateScopeInput{
		UserID: f.users[models.RoleManager].ID, ScopeType: models.ScopeBusinessGroup, BusinessGroupID: &f.bg.ID,
	}, nil)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, CreateScopeInput{
		UserID: f.users[models.RoleManager].ID, ScopeType: models.ScopeDepartment, DepartmentID: &f.dept.ID,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsBusinessRule(err))

	// supervisor: only department
	_, err = f.svc.Create(ctx, CreateScopeInput{
		UserID: f.users[models.RoleSupervisor].ID, ScopeType: models.ScopeDepartment, DepartmentID: &f.dept.ID,
	}, nil)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, CreateScopeInput{
		UserID: f.users[models.RoleSupervisor].ID, ScopeType: models.ScopeCompany, CompanyID: &f.co.ID,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsBusinessRule(err))

	// admin may carry any scope, including GLOBAL
	_, err = f.svc.Create(ctx, CreateScopeInput{
		UserID: f.users[models.RoleAdmin].ID, ScopeType: models.ScopeGlobal,
	}, nil)
	require.NoError(t, err)
}

func TestScopeCollaboratorAndGuestHoldNothing(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()

	for _, role := range []models.Role{models.RoleCollaborator, models.RoleGuest} {
		_, err := f.svc.Create(ctx, CreateScopeInput{
			UserID: f.users[role].ID, ScopeType: models.ScopeBranch, BranchID: &f.br.ID,
		}, nil)
		require.Error(t, err, "role %s", role)
		// a business rule, not a malformed request
		require.True(t, apperrors.IsBusinessRule(err))
		require.False(t, apperrors.IsValidation(err))
	}
}

func TestScopeCreateRequiresUserAndType(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()

	// missing user_id is a malformed request, not a lookup miss
	_, err := f.svc.Create(ctx, CreateScopeInput{
		ScopeType: models.ScopeDepartment, DepartmentID: &f.dept.ID,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsValidation(err))
	require.False(t, apperrors.IsNotFound(err))

	_, err = f.svc.Create(ctx, CreateScopeInput{
		UserID: f.users[models.RoleManager].ID,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsValidation(err))
}

func TestScopeEntityExclusivity(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()
	managerID := f.users[models.RoleManager].ID

	// missing the matching entity id
	_, err := f.svc.Create(ctx, CreateScopeInput{
		UserID: managerID, ScopeType: models.ScopeCompany,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsValidation(err))

	// extra entity id alongside the matching one
	_, err = f.svc.Create(ctx, CreateScopeInput{
		UserID: managerID, ScopeType: models.ScopeCompany,
		CompanyID: &f.co.ID, BranchID: &f.br.ID,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsValidation(err))

	// GLOBAL carries no entity at all
	_, err = f.svc.Create(ctx, CreateScopeInput{
		UserID: f.users[models.RoleAdmin].ID, ScopeType: models.ScopeGlobal,
		BusinessGroupID: &f.bg.ID,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsValidation(err))
}

func TestScopeDuplicateConflict(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()
	managerID := f.users[models.RoleManager].ID

	in := CreateScopeInput{UserID: managerID, ScopeType: models.ScopeCompany, CompanyID: &f.co.ID}
	_, err := f.svc.Create(ctx, in, nil)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, in, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsConflict(err))

	// deleting the scope frees the assignment for re-creation
	scopes, err := f.svc.ListByUser(ctx, managerID)
	require.NoError(t, err)
	require.Len(t, scopes, 1)
	require.NoError(t, f.svc.Delete(ctx, scopes[0].ID, nil))

	_, err = f.svc.Create(ctx, in, nil)
	require.NoError(t, err)
}

func TestScopeUnknownEntity(t *testing.T) {
	f := newScopeFixture(t)
	missing := uint(9999)

	_, err := f.svc.Create(context.Background(), CreateScopeInput{
		UserID: f.users[models.RoleManager].ID, ScopeType: models.ScopeCompany, CompanyID: &missing,
	}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsNotFound(err))
}
