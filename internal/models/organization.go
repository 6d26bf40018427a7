package models

// BusinessGroup is the top level of the organizational hierarchy.
type BusinessGroup struct {
	BaseModel
	AuditFields

	Code string `gorm:"uniqueIndex;not null" json:"code"`
	Name string `gorm:"not null" json:"name"`

	Companies []Company `gorm:"foreignKey:BusinessGroupID" json:"companies,omitempty"`
}

// Company belongs to a business group and owns branches, departments and positions.
type Company struct {
	BaseModel
	AuditFields

	BusinessGroupID uint   `gorm:"not null;index;uniqueIndex:idx_company_code,priority:1" json:"business_group_id"`
	Code            string `gorm:"not null;uniqueIndex:idx_company_code,priority:2" json:"code"`
	LegalName       string `gorm:"not null" json:"legal_name"`
	TradeName       string `json:"trade_name"`

	BusinessGroup *BusinessGroup `json:"business_group,omitempty"`
	Branches      []Branch       `gorm:"foreignKey:CompanyID" json:"branches,omitempty"`
}

// Branch is a physical site of a company.
type Branch struct {
	BaseModel
	AuditFields

	CompanyID uint   `gorm:"not null;index;uniqueIndex:idx_branch_code,priority:1" json:"company_id"`
	Code      string `gorm:"not null;uniqueIndex:idx_branch_code,priority:2" json:"code"`
	Name      string `gorm:"not null" json:"name"`

	Company *Company `json:"company,omitempty"`
}

// Position is a job title within a company.
type Position struct {
	BaseModel
	AuditFields

	CompanyID uint   `gorm:"not null;index;uniqueIndex:idx_position_code,priority:1" json:"company_id"`
	Code      string `gorm:"not null;uniqueIndex:idx_position_code,priority:2" json:"code"`
	Title     string `gorm:"not null" json:"title"`

	Company *Company `json:"company,omitempty"`
}
