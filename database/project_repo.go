package database

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Brightboard-Labs/brightboard/backend/models"
)

// ProjectFilter narrows FindForUser results. Zero values mean "no filter".
type ProjectFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindByID returns a fully hydrated project by its ID
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Owner").
		Preload("Members.User").
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Tags").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindForUser returns the page of projects the user owns or is a member of,
// together with the total count before pagination.
func (r *ProjectRepo) FindForUser(userID uuid.UUID, filter ProjectFilter) ([]*models.Project, int64, error) {
	memberOf := r.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	query := r.db.Model(&models.Project{}).
		Where("owner_id = ? OR id IN (?)", userID, memberOf)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var projects []*models.Project
	err := query.
		Preload("Owner").
		Preload("Members.User").
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Tags").
		Order("updated_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&projects).Error
	return projects, total, err
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update updates an existing project's scalar columns.
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Omit("Owner", "Members", "Columns", "Tags", "Tasks").Save(project).Error
}

// Delete removes a project and everything it owns: memberships, columns,
// tags, tasks and the tasks' comments, watchers and tag links. Callers run
// this inside a transaction.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	taskIDs := func() *gorm.DB {
		return r.db.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
	}

	if err := r.db.Where("task_id IN (?)", taskIDs()).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("task_id IN (?)", taskIDs()).Delete(&models.TaskWatcher{}).Error; err != nil {
		return err
	}
	if err := r.db.Exec("DELETE FROM task_tags WHERE task_id IN (?)", taskIDs()).Error; err != nil {
		return err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.ProjectColumn{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.ProjectTag{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}
