package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
)

type employeeFixture struct {
	*orgFixture
	svc  *EmployeeService
	dept models.Department
	pos  models.Position
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	f := &employeeFixture{orgFixture: newOrgFixture(t)}
	f.svc = NewEmployeeService(f.db)

	branchID := f.br.ID
	f.dept = models.Department{CompanyID: f.co.ID, BranchID: &branchID, Code: "ENG", Name: "Engineering"}
	require.NoError(t, f.db.Create(&f.dept).Error)
	f.pos = models.Position{CompanyID: f.co.ID, Code: "DEV", Title: "Developer"}
	require.NoError(t, f.db.Create(&f.pos).Error)
	return f
}

func (f *employeeFixture) input(code string, supervisorID *uint) EmployeeInput {
	return EmployeeInput{
		BusinessGroupID: f.bg.ID,
		CompanyID:       f.co.ID,
		DepartmentID:    f.dept.ID,
		PositionID:      f.pos.ID,
		SupervisorID:    supervisorID,
		EmployeeCode:    code,
		HireDate:        time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEmployeeSupervisorChain(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	head, err := f.svc.Create(ctx, f.input("E001", nil), nil)
	require.NoError(t, err)
	lead, err := f.svc.Create(ctx, f.input("E002", &head.ID), nil)
	require.NoError(t, err)
	dev, err := f.svc.Create(ctx, f.input("E003", &lead.ID), nil)
	require.NoError(t, err)

	// reversing the chain closes a loop
	in := f.input("E001", &dev.ID)
	_, err = f.svc.Update(ctx, head.ID, in, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsBusinessRule(err))

	// nobody supervises themselves
	in = f.input("E002", &lead.ID)
	_, err = f.svc.Update(ctx, lead.ID, in, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsBusinessRule(err))

	reports, err := f.svc.Subordinates(ctx, head.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, "E002", reports[0].EmployeeCode)
}

func TestEmployeeSupervisorMustShareCompany(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	other := models.Company{BusinessGroupID: f.bg.ID, Code: "CO2", LegalName: "Other"}
	require.NoError(t, f.db.Create(&other).Error)
	otherDept := models.Department{CompanyID: other.ID, IsCorporate: true, Code: "HQ", Name: "HQ"}
	require.NoError(t, f.db.Create(&otherDept).Error)
	otherPos := models.Position{CompanyID: other.ID, Code: "MGR", Title: "Manager"}
	require.NoError(t, f.db.Create(&otherPos).Error)

	foreign, err := f.svc.Create(ctx, EmployeeInput{
		BusinessGroupID: f.bg.ID,
		CompanyID:       other.ID,
		DepartmentID:    otherDept.ID,
		PositionID:      otherPos.ID,
		EmployeeCode:    "X001",
		HireDate:        time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.input("E001", &foreign.ID), nil)
	require.Error(t, err)
	require.True(t, apperrors.IsBusinessRule(err))
}

func TestEmployeeDeleteBlockedBySubordinates(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	head, err := f.svc.Create(ctx, f.input("E001", nil), nil)
	require.NoError(t, err)
	report, err := f.svc.Create(ctx, f.input("E002", &head.ID), nil)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, head.ID, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsBusinessRule(err))

	require.NoError(t, f.svc.Delete(ctx, report.ID, nil))
	require.NoError(t, f.svc.Delete(ctx, head.ID, nil))
}

func TestEmployeeCodeUniquePerCompany(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input("E001", nil), nil)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.input("E001", nil), nil)
	require.Error(t, err)
	require.True(t, apperrors.IsConflict(err))
}
