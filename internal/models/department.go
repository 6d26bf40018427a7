package models

// Department is a self-referencing organizational unit within a company.
// Corporate departments hang directly off the company; branch departments
// belong to one of its branches. The ParentID chain must stay acyclic and
// bounded; see internal/hierarchy.
type Department struct {
	BaseModel
	AuditFields

	CompanyID   uint   `gorm:"not null;index;uniqueIndex:idx_department_code,priority:1" json:"company_id"`
	BranchID    *uint  `gorm:"index" json:"branch_id,omitempty"`
	IsCorporate bool   `gorm:"default:false" json:"is_corporate"`
	Code        string `gorm:"not null;uniqueIndex:idx_department_code,priority:2" json:"code"`
	Name        string `gorm:"not null" json:"name"`
	ParentID    *uint  `gorm:"index" json:"parent_id,omitempty"`

	Company  *Company     `json:"company,omitempty"`
	Branch   *Branch      `json:"branch,omitempty"`
	Parent   *Department  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Department `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
