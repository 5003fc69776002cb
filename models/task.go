package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TerminalStatus reports whether a status value marks a task as finished.
// CompletedAt is derived from this set and is never independently writable.
func TerminalStatus(status string) bool {
	return status == "Done" || status == "Completed"
}

// Task is a unit of work inside a project. Status is a free string matching a
// column name in the owning project; Position orders tasks within a lane.
type Task struct {
	ID             uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title          string       `json:"title" db:"title" gorm:"type:text;not null"`
	Description    string       `json:"description" db:"description" gorm:"type:text"`
	ProjectID      uuid.UUID    `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	CreatorID      uuid.UUID    `json:"creator_id" db:"creator_id" gorm:"type:uuid;not null"`
	AssigneeID     *uuid.UUID   `json:"assignee_id,omitempty" db:"assignee_id" gorm:"type:uuid;index"`
	Status         string       `json:"status" db:"status" gorm:"type:text;not null;default:'To Do'"`
	Priority       TaskPriority `json:"priority" db:"priority" gorm:"type:text;not null;default:MEDIUM"`
	DueDate        *time.Time   `json:"due_date,omitempty" db:"due_date"`
	StartDate      *time.Time   `json:"start_date,omitempty" db:"start_date"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	EstimatedHours float64      `json:"estimated_hours" db:"estimated_hours"`
	ActualHours    float64      `json:"actual_hours" db:"actual_hours"`
	Position       int          `json:"position" db:"position" gorm:"not null;default:0"`
	Archived       bool         `json:"archived" db:"archived" gorm:"not null;default:false"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`

	Creator  *User         `json:"creator,omitempty" gorm:"foreignKey:CreatorID;references:ID"`
	Assignee *User         `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID;references:ID"`
	Comments []Comment     `json:"comments,omitempty" gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"`
	Watchers []TaskWatcher `json:"watchers,omitempty" gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"`
	Tags     []ProjectTag  `json:"tags,omitempty" gorm:"many2many:task_tags;constraint:OnDelete:CASCADE"`
}
