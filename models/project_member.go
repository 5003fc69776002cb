package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a per-project membership role. The set is closed; the historical
// lowercase variants are normalized away at this layer.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanEdit reports whether the role grants project-level write access.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleAdmin
}

// ProjectMember links a user to a project with a role. Exactly one OWNER row
// exists per project, inserted in the same transaction as the project itself.
type ProjectMember struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;primaryKey;not null;index"`
	Role      Role      `json:"role" db:"role" gorm:"type:text;not null;default:MEMBER"`
	JoinedAt  time.Time `json:"joined_at" db:"joined_at" gorm:"autoCreateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
