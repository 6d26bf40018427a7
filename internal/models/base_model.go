package models

import "time"

// BaseModel provides the shared identifier and timestamps for all persistent models.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditFields carries the soft-delete discipline shared by every record: rows
// are never hard-deleted, they are flagged and filtered out of reads.
type AuditFields struct {
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
	IsDeleted bool       `gorm:"default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	CreatedBy *uint      `json:"created_by,omitempty"`
	UpdatedBy *uint      `json:"updated_by,omitempty"`
	DeletedBy *uint      `json:"-"`
}

// MarkDeleted flips the record into its soft-deleted state.
func (a *AuditFields) MarkDeleted(deletedBy *uint, at time.Time) {
	a.IsActive = false
	a.IsDeleted = true
	a.DeletedAt = &at
	if deletedBy != nil {
		a.DeletedBy = deletedBy
	}
}
