package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Brightboard-Labs/brightboard/backend/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindOrCreate resolves a tag by (projectID, name), creating it when absent.
func (r *TagRepo) FindOrCreate(projectID uuid.UUID, name string) (*models.ProjectTag, error) {
	var tag models.ProjectTag
	err := r.db.First(&tag, "project_id = ? AND name = ?", projectID, name).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.ProjectTag{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      name,
	}
	if err := r.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// AddAll inserts a batch of tags.
func (r *TagRepo) AddAll(tags []models.ProjectTag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.Create(&tags).Error
}

// Replace deletes every tag of the project and inserts the given set,
// mirroring the column replace semantics.
func (r *TagRepo) Replace(projectID uuid.UUID, tags []models.ProjectTag) error {
	if err := r.db.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
		return err
	}
	return r.AddAll(tags)
}
