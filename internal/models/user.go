package models

import "time"

// Platform roles, ordered from most to least privileged.
const (
	RoleSuperadmin     = "superadmin"
	RoleAdmin          = "admin"
	RoleContentManager = "content_manager"
	RoleSupport        = "support"
	RoleUser           = "user"
)

// ValidRole reports whether the value names an assignable role.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleContentManager, RoleSupport, RoleUser:
		return true
	}
	return false
}

// User mirrors the queryable subset of an identity. The authoritative role
// claim lives in the claims store; this row exists so roles can be listed
// and joined against.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"index" json:"email,omitempty"`
	Role      string    `gorm:"not null;default:user;index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
