package models

import "time"

// EmploymentStatus enumerates the lifecycle states of an employment relationship.
type EmploymentStatus string

const (
	EmploymentActive     EmploymentStatus = "ACTIVE"
	EmploymentSuspended  EmploymentStatus = "SUSPENDED"
	EmploymentTerminated EmploymentStatus = "TERMINATED"
)

// Employee links a person to a position within the organizational structure.
// SupervisorID forms the reporting chain, validated with the same cycle guard
// as the department tree.
type Employee struct {
	BaseModel
	AuditFields

	UserID *uint `gorm:"index" json:"user_id,omitempty"`

	BusinessGroupID uint  `gorm:"not null;index" json:"business_group_id"`
	CompanyID       uint  `gorm:"not null;index;uniqueIndex:idx_employee_code,priority:1" json:"company_id"`
	BranchID        *uint `gorm:"index" json:"branch_id,omitempty"`
	DepartmentID    uint  `gorm:"not null;index" json:"department_id"`
	PositionID      uint  `gorm:"not null;index" json:"position_id"`
	SupervisorID    *uint `gorm:"index" json:"supervisor_id,omitempty"`

	EmployeeCode     string           `gorm:"not null;uniqueIndex:idx_employee_code,priority:2" json:"employee_code"`
	HireDate         time.Time        `gorm:"not null" json:"hire_date"`
	EmploymentStatus EmploymentStatus `gorm:"not null;default:ACTIVE" json:"employment_status"`

	Supervisor   *Employee   `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Subordinates []Employee  `gorm:"foreignKey:SupervisorID" json:"subordinates,omitempty"`
	Department   *Department `json:"department,omitempty"`
	Position     *Position   `json:"position,omitempty"`
}
