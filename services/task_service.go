package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Brightboard-Labs/brightboard/backend/database"
	"github.com/Brightboard-Labs/brightboard/backend/errs"
	"github.com/Brightboard-Labs/brightboard/backend/models"
	"github.com/Brightboard-Labs/brightboard/backend/realtime"
)

// OptionalUUID distinguishes "field omitted" from "field set to null" in a
// JSON patch. Assignment needs all three states: leave alone, unassign, set.
type OptionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// TaskService owns task and comment CRUD. Edit rights on a task are broader
// than project-edit rights: the creator and the current assignee may edit
// without holding ADMIN. Deletion is narrower and excludes the assignee.
type TaskService struct {
	db         database.Database
	membership *Membership
	logger     zerolog.Logger
}

func NewTaskService(db database.Database, membership *Membership) *TaskService {
	return &TaskService{
		db:         db,
		membership: membership,
		logger:     log.With().Str("serviceName", "taskService").Logger(),
	}
}

type CreateTaskInput struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         string              `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        *time.Time          `json:"due_date"`
	StartDate      *time.Time          `json:"start_date"`
	EstimatedHours float64             `json:"estimated_hours"`
	AssigneeID     *uuid.UUID          `json:"assignee_id"`
	Tags           []string            `json:"tags"`
}

type UpdateTaskInput struct {
	Title          *string              `json:"title"`
	Description    *string              `json:"description"`
	Status         *string              `json:"status"`
	Priority       *models.TaskPriority `json:"priority"`
	DueDate        *time.Time           `json:"due_date"`
	StartDate      *time.Time           `json:"start_date"`
	EstimatedHours *float64             `json:"estimated_hours"`
	ActualHours    *float64             `json:"actual_hours"`
	Position       *int                 `json:"position"`
	Archived       *bool                `json:"archived"`
	AssigneeID     OptionalUUID         `json:"assignee_id"`
	Tags           *[]string            `json:"tags"`
}

// Create inserts the task at the end of its lane with watcher rows for the
// creator and assignee, resolving tags inside the same transaction.
func (s *TaskService) Create(projectID uuid.UUID, input CreateTaskInput, creatorID uuid.UUID) (*models.Task, []realtime.Event, error) {
	if err := s.membership.AssertMember(projectID, creatorID); err != nil {
		return nil, nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, nil, errs.NewValidationError("title", "title is required")
	}

	status := input.Status
	if status == "" {
		status = "To Do"
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, nil, errs.NewValidationError("priority", "unknown priority")
	}

	if input.AssigneeID != nil {
		ok, err := s.membership.IsMember(projectID, *input.AssigneeID)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, errs.InvalidAssignee()
		}
	}

	task := &models.Task{
		ID:             uuid.New(),
		Title:          title,
		Description:    input.Description,
		ProjectID:      projectID,
		CreatorID:      creatorID,
		AssigneeID:     input.AssigneeID,
		Status:         status,
		Priority:       priority,
		DueDate:        input.DueDate,
		StartDate:      input.StartDate,
		EstimatedHours: input.EstimatedHours,
	}
	if models.TerminalStatus(status) {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}

	err := s.db.Transaction(func(tx database.Database) error {
		// append to the end of the lane; an empty lane starts at 0. Two
		// concurrent creates can read the same max and produce duplicate
		// positions, which listing breaks by creation time.
		maxPos, found, err := tx.TaskRepo().MaxPosition(projectID, status)
		if err != nil {
			return errs.NewDatabaseError("find max position", "task", err)
		}
		if found {
			task.Position = maxPos + 1
		}

		if err := tx.TaskRepo().Add(task); err != nil {
			return errs.NewDatabaseError("create", "task", err)
		}
		if err := tx.WatcherRepo().Add(task.ID, creatorID); err != nil {
			return errs.NewDatabaseError("create", "task watcher", err)
		}
		if task.AssigneeID != nil && *task.AssigneeID != creatorID {
			if err := tx.WatcherRepo().Add(task.ID, *task.AssigneeID); err != nil {
				return errs.NewDatabaseError("create", "task watcher", err)
			}
		}

		tags := make([]models.ProjectTag, 0, len(input.Tags))
		for _, name := range dedupeNames(input.Tags) {
			tag, err := tx.TagRepo().FindOrCreate(projectID, name)
			if err != nil {
				return errs.NewDatabaseError("resolve", "project tag", err)
			}
			tags = append(tags, *tag)
		}
		if err := tx.TaskRepo().AppendTags(task, tags); err != nil {
			return errs.NewDatabaseError("link", "task tags", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	hydrated, err := s.db.TaskRepo().FindByID(task.ID)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find created", "task", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.TaskCreated, projectID, creatorID, hydrated),
	}
	return hydrated, events, nil
}

// ListForProject returns the project's non-archived tasks for a member.
func (s *TaskService) ListForProject(projectID, userID uuid.UUID, filter database.TaskFilter) ([]*models.Task, error) {
	if err := s.membership.AssertMember(projectID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.db.TaskRepo().FindForProject(projectID, filter)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tasks", err)
	}
	return tasks, nil
}

// GetByID loads a task for a member of its project.
func (s *TaskService) GetByID(taskID, userID uuid.UUID) (*models.Task, error) {
	task, err := s.db.TaskRepo().FindByID(taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundOrDenied("task")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "task", err)
	}

	if err := s.membership.AssertMember(task.ProjectID, userID); err != nil {
		return nil, errs.NotFoundOrDenied("task")
	}
	return task, nil
}

// canEditTask implements the broadened edit rule: creator, current assignee,
// or a project editor.
func (s *TaskService) canEditTask(task *models.Task, userID uuid.UUID) (bool, error) {
	if task.CreatorID == userID {
		return true, nil
	}
	if task.AssigneeID != nil && *task.AssigneeID == userID {
		return true, nil
	}
	role, err := s.membership.RoleOf(task.ProjectID, userID)
	if err != nil {
		return false, err
	}
	return role.CanEdit(), nil
}

// Update patches the task. CompletedAt is derived from the incoming status
// and is never writable on its own: a terminal status stamps it, a
// non-terminal status clears it, an omitted status leaves it untouched.
func (s *TaskService) Update(taskID uuid.UUID, input UpdateTaskInput, userID uuid.UUID) (*models.Task, []realtime.Event, error) {
	task, err := s.GetByID(taskID, userID)
	if err != nil {
		return nil, nil, err
	}

	allowed, err := s.canEditTask(task, userID)
	if err != nil {
		return nil, nil, err
	}
	if !allowed {
		return nil, nil, errs.InsufficientPermissions("edit this task")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, nil, errs.NewValidationError("title", "title cannot be empty")
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, nil, errs.NewValidationError("priority", "unknown priority")
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.StartDate != nil {
		task.StartDate = input.StartDate
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = *input.EstimatedHours
	}
	if input.ActualHours != nil {
		task.ActualHours = *input.ActualHours
	}
	if input.Position != nil {
		task.Position = *input.Position
	}
	if input.Archived != nil {
		task.Archived = *input.Archived
	}

	if input.Status != nil {
		task.Status = *input.Status
		if models.TerminalStatus(*input.Status) {
			if task.CompletedAt == nil {
				now := time.Now().UTC()
				task.CompletedAt = &now
			}
		} else {
			task.CompletedAt = nil
		}
	}

	var newWatcher *uuid.UUID
	if input.AssigneeID.Set {
		if input.AssigneeID.Value != nil {
			assigneeID := *input.AssigneeID.Value
			changed := task.AssigneeID == nil || *task.AssigneeID != assigneeID
			if changed {
				ok, err := s.membership.IsMember(task.ProjectID, assigneeID)
				if err != nil {
					return nil, nil, err
				}
				if !ok {
					return nil, nil, errs.InvalidAssignee()
				}
				newWatcher = &assigneeID
			}
			task.AssigneeID = &assigneeID
		} else {
			task.AssigneeID = nil
		}
	}

	err = s.db.Transaction(func(tx database.Database) error {
		if err := tx.TaskRepo().Update(task); err != nil {
			return errs.NewDatabaseError("update", "task", err)
		}
		if newWatcher != nil {
			if err := tx.WatcherRepo().Add(task.ID, *newWatcher); err != nil {
				return errs.NewDatabaseError("create", "task watcher", err)
			}
		}
		if input.Tags != nil {
			tags := make([]models.ProjectTag, 0, len(*input.Tags))
			for _, name := range dedupeNames(*input.Tags) {
				tag, err := tx.TagRepo().FindOrCreate(task.ProjectID, name)
				if err != nil {
					return errs.NewDatabaseError("resolve", "project tag", err)
				}
				tags = append(tags, *tag)
			}
			if err := tx.TaskRepo().ReplaceTags(task, tags); err != nil {
				return errs.NewDatabaseError("link", "task tags", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	hydrated, err := s.db.TaskRepo().FindByID(task.ID)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find updated", "task", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.TaskUpdated, task.ProjectID, userID, hydrated),
	}
	return hydrated, events, nil
}

// Delete removes a task. Allowed for the creator or a project editor only;
// being the assignee is not enough.
func (s *TaskService) Delete(taskID, userID uuid.UUID) ([]realtime.Event, error) {
	task, err := s.GetByID(taskID, userID)
	if err != nil {
		return nil, err
	}

	if task.CreatorID != userID {
		role, err := s.membership.RoleOf(task.ProjectID, userID)
		if err != nil {
			return nil, err
		}
		if !role.CanEdit() {
			return nil, errs.InsufficientPermissions("delete this task")
		}
	}

	err = s.db.Transaction(func(tx database.Database) error {
		return tx.TaskRepo().Delete(taskID)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("delete", "task", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.TaskDeleted, task.ProjectID, userID, map[string]any{
			"id":         taskID,
			"project_id": task.ProjectID,
		}),
	}
	return events, nil
}

// AddComment appends a comment and subscribes the author to the task.
func (s *TaskService) AddComment(taskID uuid.UUID, content string, authorID uuid.UUID) (*models.Comment, []realtime.Event, error) {
	task, err := s.GetByID(taskID, authorID)
	if err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, nil, errs.NewValidationError("content", "comment content is required")
	}

	project, err := s.db.ProjectRepo().FindByID(task.ProjectID)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find", "project", err)
	}
	if !project.Settings.AllowComments {
		return nil, nil, errs.NewValidationError("content", "comments are disabled for this project")
	}

	comment := &models.Comment{
		ID:       uuid.New(),
		TaskID:   taskID,
		AuthorID: authorID,
		Content:  content,
	}

	err = s.db.Transaction(func(tx database.Database) error {
		if err := tx.CommentRepo().Add(comment); err != nil {
			return errs.NewDatabaseError("create", "comment", err)
		}
		if err := tx.WatcherRepo().Add(taskID, authorID); err != nil {
			return errs.NewDatabaseError("create", "task watcher", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	hydrated, err := s.db.CommentRepo().FindByID(comment.ID)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find created", "comment", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.CommentAdded, task.ProjectID, authorID, hydrated),
	}
	return hydrated, events, nil
}

// UpdateComment edits a comment's content. Author only, and the edited flag
// sticks.
func (s *TaskService) UpdateComment(taskID, commentID uuid.UUID, content string, userID uuid.UUID) (*models.Comment, []realtime.Event, error) {
	task, err := s.GetByID(taskID, userID)
	if err != nil {
		return nil, nil, err
	}

	comment, err := s.findTaskComment(taskID, commentID)
	if err != nil {
		return nil, nil, err
	}

	if comment.AuthorID != userID {
		return nil, nil, errs.InsufficientPermissions("edit this comment")
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil, errs.NewValidationError("content", "comment content is required")
	}

	comment.Content = content
	comment.Edited = true
	if err := s.db.CommentRepo().Update(comment); err != nil {
		return nil, nil, errs.NewDatabaseError("update", "comment", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.CommentUpdated, task.ProjectID, userID, comment),
	}
	return comment, events, nil
}

// DeleteComment removes a comment. The author may always delete their own;
// project editors may delete anyone's.
func (s *TaskService) DeleteComment(taskID, commentID, userID uuid.UUID) ([]realtime.Event, error) {
	task, err := s.GetByID(taskID, userID)
	if err != nil {
		return nil, err
	}

	comment, err := s.findTaskComment(taskID, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != userID {
		role, err := s.membership.RoleOf(task.ProjectID, userID)
		if err != nil {
			return nil, err
		}
		if !role.CanEdit() {
			return nil, errs.InsufficientPermissions("delete this comment")
		}
	}

	if err := s.db.CommentRepo().Delete(commentID); err != nil {
		return nil, errs.NewDatabaseError("delete", "comment", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.CommentDeleted, task.ProjectID, userID, map[string]any{
			"id":      commentID,
			"task_id": taskID,
		}),
	}
	return events, nil
}

func (s *TaskService) findTaskComment(taskID, commentID uuid.UUID) (*models.Comment, error) {
	comment, err := s.db.CommentRepo().FindByID(commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundOrDenied("comment")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "comment", err)
	}
	if comment.TaskID != taskID {
		return nil, errs.NotFoundOrDenied("comment")
	}
	return comment, nil
}
