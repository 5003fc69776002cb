package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the site-wide role of an account, distinct from per-project
// membership roles.
type UserRole string

const (
	UserRoleOrdinary UserRole = "user"
	UserRoleAdmin    UserRole = "admin"
)

// User represents a registered account. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Email        string     `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	Name         string     `json:"name" db:"name" gorm:"type:text;not null"`
	PasswordHash string     `json:"-" db:"password_hash" gorm:"type:text;not null"`
	AvatarURL    string     `json:"avatar_url,omitempty" db:"avatar_url" gorm:"type:text"`
	Role         UserRole   `json:"role" db:"role" gorm:"type:text;not null;default:user"`
	IsActive     bool       `json:"is_active" db:"is_active" gorm:"not null;default:true"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
