package models

// ScopeType names the organizational boundary a scope binds a user to.
type ScopeType string

const (
	ScopeGlobal        ScopeType = "GLOBAL"
	ScopeBusinessGroup ScopeType = "BUSINESS_GROUP"
	ScopeCompany       ScopeType = "COMPANY"
	ScopeBranch        ScopeType = "BRANCH"
	ScopeDepartment    ScopeType = "DEPARTMENT"
)

// Valid reports whether the scope type is one of the recognised values.
func (s ScopeType) Valid() bool {
	switch s {
	case ScopeGlobal, ScopeBusinessGroup, ScopeCompany, ScopeBranch, ScopeDepartment:
		return true
	}
	return false
}

// UserScope binds a user's grants to an organizational boundary. Exactly one
// of the entity id columns is populated, matching ScopeType; GLOBAL carries
// none. A user may hold several scopes but never a duplicate
// (user_id, scope_type, entity_id) among non-deleted rows.
type UserScope struct {
	BaseModel
	AuditFields

	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ScopeType ScopeType `gorm:"not null;index" json:"scope_type"`

	BusinessGroupID *uint `gorm:"index" json:"business_group_id,omitempty"`
	CompanyID       *uint `gorm:"index" json:"company_id,omitempty"`
	BranchID        *uint `gorm:"index" json:"branch_id,omitempty"`
	DepartmentID    *uint `gorm:"index" json:"department_id,omitempty"`

	User *User `json:"-"`
}

// EntityID returns the populated organizational-unit identifier for the scope
// type, or nil for GLOBAL (and for malformed rows).
func (s *UserScope) EntityID() *uint {
	switch s.ScopeType {
	case ScopeBusinessGroup:
		return s.BusinessGroupID
	case ScopeCompany:
		return s.CompanyID
	case ScopeBranch:
		return s.BranchID
	case ScopeDepartment:
		return s.DepartmentID
	}
	return nil
}
