package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Brightboard-Labs/brightboard/backend/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindByID returns a comment by its ID
func (r *CommentRepo) FindByID(id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask returns a task's comments oldest first.
func (r *CommentRepo) ListByTask(taskID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.Preload("Author").Where("task_id = ?", taskID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// RecentInProjects returns the latest comments across the given projects.
func (r *CommentRepo) RecentInProjects(projectIDs []uuid.UUID, limit int) ([]*models.Comment, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var comments []*models.Comment
	err := r.db.
		Preload("Author").
		Joins("JOIN tasks ON tasks.id = comments.task_id").
		Where("tasks.project_id IN ?", projectIDs).
		Order("comments.created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(comment *models.Comment) error {
	return r.db.Omit("Author").Create(comment).Error
}

// Update updates an existing comment in the database
func (r *CommentRepo) Update(comment *models.Comment) error {
	return r.db.Omit("Author").Save(comment).Error
}

// Delete removes a comment from the database by id
func (r *CommentRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Comment{}, "id = ?", id).Error
}
