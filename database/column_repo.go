package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Brightboard-Labs/brightboard/backend/models"
)

type ColumnRepo struct {
	db *gorm.DB
}

func NewColumnRepo(db *gorm.DB) *ColumnRepo {
	return &ColumnRepo{db}
}

// ListByProject returns a project's columns ordered by position.
func (r *ColumnRepo) ListByProject(projectID uuid.UUID) ([]*models.ProjectColumn, error) {
	var columns []*models.ProjectColumn
	err := r.db.Where("project_id = ?", projectID).Order("position ASC").Find(&columns).Error
	return columns, err
}

// AddAll inserts a batch of columns.
func (r *ColumnRepo) AddAll(columns []models.ProjectColumn) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.Create(&columns).Error
}

// Replace deletes every column of the project and inserts the given set.
// This is a wholesale replace, not a merge; callers depend on that semantic.
func (r *ColumnRepo) Replace(projectID uuid.UUID, columns []models.ProjectColumn) error {
	if err := r.db.Where("project_id = ?", projectID).Delete(&models.ProjectColumn{}).Error; err != nil {
		return err
	}
	return r.AddAll(columns)
}
