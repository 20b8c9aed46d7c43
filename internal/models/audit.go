package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded by the platform.
const (
	AuditActionSystemEnroll = "system_enroll"
	AuditActionSetAdminRole = "set_admin_role"
)

// AuditActorSystem is the actor recorded for actions taken by the platform
// itself rather than an authenticated caller.
const AuditActorSystem = "system"

// AuditLog is an append-only record of privileged mutations. Entries written
// inside the enrollment transaction commit or roll back with it.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Action     string            `gorm:"not null;index" json:"action"`
	EntityType string            `gorm:"not null;index" json:"entity_type"`
	EntityID   string            `gorm:"not null;index" json:"entity_id"`
	ActorID    string            `gorm:"not null" json:"actor_id"`
	Details    datatypes.JSONMap `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
