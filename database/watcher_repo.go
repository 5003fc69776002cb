package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Brightboard-Labs/brightboard/backend/models"
)

type WatcherRepo struct {
	db *gorm.DB
}

func NewWatcherRepo(db *gorm.DB) *WatcherRepo {
	return &WatcherRepo{db}
}

// Add subscribes a user to a task. Idempotent: an existing row is left alone.
func (r *WatcherRepo) Add(taskID, userID uuid.UUID) error {
	watcher := models.TaskWatcher{UserID: userID, TaskID: taskID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&watcher).Error
}

// Remove unsubscribes a user from a task.
func (r *WatcherRepo) Remove(taskID, userID uuid.UUID) error {
	return r.db.
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskWatcher{}).Error
}

// ListByTask returns the task's watchers.
func (r *WatcherRepo) ListByTask(taskID uuid.UUID) ([]*models.TaskWatcher, error) {
	var watchers []*models.TaskWatcher
	err := r.db.Preload("User").Where("task_id = ?", taskID).Find(&watchers).Error
	return watchers, err
}
