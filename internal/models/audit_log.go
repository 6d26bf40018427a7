package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records administrative mutations (grant/scope changes, bulk
// replaces) for traceability.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   *uint          `gorm:"index" json:"actor_id,omitempty"`
	Action    string         `gorm:"not null;index" json:"action"`
	Resource  string         `gorm:"index" json:"resource"`
	Result    string         `json:"result"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
