package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a task. Only the author may change Content; the Edited
// flag is set on the first successful edit and never cleared.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	TaskID    uuid.UUID `json:"task_id" db:"task_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null"`
	Content   string    `json:"content" db:"content" gorm:"type:text;not null"`
	Edited    bool      `json:"edited" db:"edited" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
}
