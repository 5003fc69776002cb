package models

// All returns every model for schema migration, ordered so that referenced
// tables are created before their dependents.
func All() []any {
	return []any{
		&User{},
		&Project{},
		&ProjectMember{},
		&ProjectColumn{},
		&ProjectTag{},
		&Task{},
		&Comment{},
		&TaskWatcher{},
	}
}
