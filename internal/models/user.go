package models

import "time"

// Role identifies the coarse access level of a user. The role determines which
// scope types the user may hold; it is assigned by the identity layer.
type Role int

const (
	RoleAdmin        Role = 1
	RoleManager      Role = 2 // Gerente
	RoleSupervisor   Role = 3 // Gestor
	RoleCollaborator Role = 4
	RoleGuest        Role = 5
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleManager:
		return "Manager"
	case RoleSupervisor:
		return "Supervisor"
	case RoleCollaborator:
		return "Collaborator"
	case RoleGuest:
		return "Guest"
	default:
		return "Unknown"
	}
}

// Valid reports whether the role is one of the recognised values.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleGuest
}

// User describes platform users. Credentials live here; authorization lives in
// UserScope and UserPermission rows referencing the user.
type User struct {
	BaseModel
	AuditFields

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"not null;default:4;index" json:"role"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Scopes      []UserScope      `gorm:"foreignKey:UserID" json:"scopes,omitempty"`
	Permissions []UserPermission `gorm:"foreignKey:UserID" json:"-"`
}
