package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskWatcher subscribes a user to a task's notifications. Rows are created
// implicitly for the creator, the assignee, and comment authors.
type TaskWatcher struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;primaryKey;not null"`
	TaskID    uuid.UUID `json:"task_id" db:"task_id" gorm:"type:uuid;primaryKey;not null;index"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
