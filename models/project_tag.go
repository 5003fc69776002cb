package models

import "github.com/google/uuid"

// ProjectTag is a free-form label scoped to one project.
type ProjectTag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_tag_project_id;uniqueIndex:idx_project_tag_unique"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_project_tag_unique"`
}
