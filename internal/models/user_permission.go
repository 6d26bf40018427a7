package models

// UserPermission records whether one user may invoke one (endpoint, method)
// pair. The endpoint is either a concrete path or a normalized base path; the
// resolver checks the concrete path first, then the base. At most one
// non-deleted row exists per (user_id, endpoint, method), enforced at write
// time; the index stays non-unique because retired rows share the key.
type UserPermission struct {
	BaseModel
	AuditFields

	UserID   uint   `gorm:"not null;index:idx_grant_lookup,priority:1" json:"user_id"`
	Endpoint string `gorm:"not null;index:idx_grant_lookup,priority:2" json:"endpoint"`
	Method   string `gorm:"not null;index:idx_grant_lookup,priority:3" json:"method"`
	Allowed  bool   `gorm:"not null;default:false" json:"allowed"`

	User *User `json:"-"`
}
