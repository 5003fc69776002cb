package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
	ProjectOnHold    ProjectStatus = "on-hold"
)

// ProjectSettings is embedded into Project as prefixed columns.
type ProjectSettings struct {
	AllowComments    bool `json:"allow_comments" gorm:"not null;default:true"`
	AllowAttachments bool `json:"allow_attachments" gorm:"not null;default:true"`
	NotifyMembers    bool `json:"notify_members" gorm:"not null;default:true"`
}

// Project is the top-level collaboration unit. It owns its members, columns,
// tags and tasks; deleting a project cascades to all of them.
type Project struct {
	ID          uuid.UUID       `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string          `json:"name" db:"name" gorm:"type:text;not null"`
	Description string          `json:"description" db:"description" gorm:"type:text"`
	Status      ProjectStatus   `json:"status" db:"status" gorm:"type:text;not null;default:active"`
	Priority    TaskPriority    `json:"priority" db:"priority" gorm:"type:text;not null;default:MEDIUM"`
	Color       string          `json:"color" db:"color" gorm:"type:text"`
	DueDate     *time.Time      `json:"due_date,omitempty" db:"due_date"`
	OwnerID     uuid.UUID       `json:"owner_id" db:"owner_id" gorm:"type:uuid;not null;index"`
	Settings    ProjectSettings `json:"settings" gorm:"embedded;embeddedPrefix:settings_"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	Owner   *User           `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Members []ProjectMember `json:"members,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Columns []ProjectColumn `json:"columns,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Tags    []ProjectTag    `json:"tags,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Tasks   []Task          `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}
