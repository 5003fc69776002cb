package database

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Brightboard-Labs/brightboard/backend/models"
)

// TaskFilter narrows FindForProject results. Zero values mean "no filter".
type TaskFilter struct {
	Status     string
	AssigneeID *uuid.UUID
	Priority   string
	Search     string
}

// StatusCount is one row of a per-status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type TaskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) *TaskRepo {
	return &TaskRepo{db}
}

// FindByID returns a task with its relations loaded.
func (r *TaskRepo) FindByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.
		Preload("Creator").
		Preload("Assignee").
		Preload("Tags").
		Preload("Watchers").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindForProject returns the project's non-archived tasks, filtered, ordered
// by lane position with creation time as the tiebreak for duplicate
// positions produced by concurrent creates.
func (r *TaskRepo) FindForProject(projectID uuid.UUID, filter TaskFilter) ([]*models.Task, error) {
	query := r.db.
		Where("project_id = ?", projectID).
		Where("archived = ?", false)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var tasks []*models.Task
	err := query.
		Preload("Creator").
		Preload("Assignee").
		Preload("Tags").
		Order("position ASC").
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// MaxPosition returns the highest position in the project+status lane, and
// whether the lane has any tasks at all.
func (r *TaskRepo) MaxPosition(projectID uuid.UUID, status string) (int, bool, error) {
	var task models.Task
	err := r.db.
		Where("project_id = ? AND status = ?", projectID, status).
		Order("position DESC").
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return task.Position, true, nil
}

// Add inserts a new task into the database
func (r *TaskRepo) Add(task *models.Task) error {
	return r.db.Omit("Creator", "Assignee", "Comments", "Watchers", "Tags").Create(task).Error
}

// Update updates an existing task's scalar columns.
func (r *TaskRepo) Update(task *models.Task) error {
	return r.db.Omit("Creator", "Assignee", "Comments", "Watchers", "Tags").Save(task).Error
}

// Delete removes a task together with its comments, watchers and tag links.
// Callers run this inside a transaction.
func (r *TaskRepo) Delete(id uuid.UUID) error {
	if err := r.db.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("task_id = ?", id).Delete(&models.TaskWatcher{}).Error; err != nil {
		return err
	}
	if err := r.db.Exec("DELETE FROM task_tags WHERE task_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Task{}, "id = ?", id).Error
}

// AppendTags links tags to the task through the join table.
func (r *TaskRepo) AppendTags(task *models.Task, tags []models.ProjectTag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.Model(task).Association("Tags").Append(tags)
}

// ReplaceTags resets the task's tag links to exactly the given set.
func (r *TaskRepo) ReplaceTags(task *models.Task, tags []models.ProjectTag) error {
	return r.db.Model(task).Association("Tags").Replace(tags)
}

// FindByAssignee returns the user's non-archived tasks across all projects.
func (r *TaskRepo) FindByAssignee(userID uuid.UUID) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.
		Where("assignee_id = ?", userID).
		Where("archived = ?", false).
		Preload("Creator").
		Order("due_date ASC").
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// StatusCounts aggregates the user's assigned, non-archived tasks by status.
func (r *TaskRepo) StatusCounts(userID uuid.UUID) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Where("assignee_id = ? AND archived = ?", userID, false).
		Group("status").
		Scan(&counts).Error
	return counts, err
}

// DueBetween returns the user's unfinished tasks due inside [from, to).
func (r *TaskRepo) DueBetween(userID uuid.UUID, from, to time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.
		Where("assignee_id = ?", userID).
		Where("archived = ? AND completed_at IS NULL", false).
		Where("due_date >= ? AND due_date < ?", from, to).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

// Overdue returns the user's unfinished tasks whose due date has passed.
func (r *TaskRepo) Overdue(userID uuid.UUID, now time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.
		Where("assignee_id = ?", userID).
		Where("archived = ? AND completed_at IS NULL", false).
		Where("due_date < ?", now).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

// RecentInProjects returns the most recently updated non-archived tasks
// across the given projects.
func (r *TaskRepo) RecentInProjects(projectIDs []uuid.UUID, limit int) ([]*models.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var tasks []*models.Task
	err := r.db.
		Where("project_id IN ?", projectIDs).
		Where("archived = ?", false).
		Preload("Assignee").
		Order("updated_at DESC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

// DueSoon returns every unfinished task, across all projects, due inside
// [from, to). Used by the reminder job.
func (r *TaskRepo) DueSoon(from, to time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.
		Where("archived = ? AND completed_at IS NULL", false).
		Where("due_date >= ? AND due_date < ?", from, to).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}
