package models

import "github.com/google/uuid"

// ProjectColumn is an ordered Kanban lane. Task.Status values are column
// names, not foreign keys, so renaming a column does not move tasks.
type ProjectColumn struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_project_column_unique"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_project_column_unique"`
	Position  int       `json:"position" db:"position" gorm:"not null"`
	Color     string    `json:"color" db:"color" gorm:"type:text"`
}

// DefaultColumns returns the four lanes seeded into every new project.
func DefaultColumns(projectID uuid.UUID) []ProjectColumn {
	names := []struct {
		name  string
		color string
	}{
		{"To Do", "#6b7280"},
		{"In Progress", "#3b82f6"},
		{"Review", "#f59e0b"},
		{"Done", "#10b981"},
	}
	columns := make([]ProjectColumn, 0, len(names))
	for i, n := range names {
		columns = append(columns, ProjectColumn{
			ID:        uuid.New(),
			ProjectID: projectID,
			Name:      n.name,
			Position:  i,
			Color:     n.color,
		})
	}
	return columns
}
