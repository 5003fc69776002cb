package services

import (
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

// ProjectService owns project CRUD and membership management. Mutations
// return the events the boundary should publish after responding; the service
// itself never touches the broadcaster.
type ProjectService struct {
	db         database.Database
	membership *Membership
	logger     zerolog.Logger
}

func NewProjectService(db database.Database, membership *Membership) *ProjectService {
	return &ProjectService{
		db:         db,
		membership: membership,
		logger:     log.With().Str("serviceName", "projectService").Logger(),
	}
}

type CreateProjectInput struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Status      models.ProjectStatus    `json:"status"`
	Priority    models.TaskPriority     `json:"priority"`
	Color       string                  `json:"color"`
	DueDate     *time.Time              `json:"due_date"`
	Settings    *models.ProjectSettings `json:"settings"`
	Tags        []string                `json:"tags"`
}

type ColumnInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type UpdateProjectInput struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Status      *models.ProjectStatus   `json:"status"`
	Priority    *models.TaskPriority    `json:"priority"`
	Color       *string                 `json:"color"`
	DueDate     *time.Time              `json:"due_date"`
	ClearDue    bool                    `json:"clear_due_date"`
	Settings    *models.ProjectSettings `json:"settings"`
	Columns     *[]ColumnInput          `json:"columns"`
	Tags        *[]string               `json:"tags"`
}

type AddMemberInput struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Create inserts the project, its OWNER membership, the four default columns
// and any supplied tags in one transaction, then returns the hydrated row.
func (s *ProjectService) Create(input CreateProjectInput, ownerID uuid.UUID) (*models.Project, []realtime.Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, errs.NewValidationError("name", "name is required")
	}

	status := input.Status
	if status == "" {
		status = models.ProjectActive
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, nil, errs.NewValidationError("priority", "unknown priority")
	}

	settings := models.ProjectSettings{AllowComments: true, AllowAttachments: true, NotifyMembers: true}
	if input.Settings != nil {
		settings = *input.Settings
	}

	project := &models.Project{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		Color:       input.Color,
		DueDate:     input.DueDate,
		OwnerID:     ownerID,
		Settings:    settings,
	}

	err := s.db.Transaction(func(tx database.Database) error {
		if err := tx.ProjectRepo().Add(project); err != nil {
			return errs.NewDatabaseError("create", "project", err)
		}
		owner := &models.ProjectMember{
			UserID:    ownerID,
			ProjectID: project.ID,
			Role:      models.RoleOwner,
		}
		if err := tx.MemberRepo().Add(owner); err != nil {
			return errs.NewDatabaseError("create", "project owner membership", err)
		}
		if err := tx.ColumnRepo().AddAll(models.DefaultColumns(project.ID)); err != nil {
			return errs.NewDatabaseError("create", "default columns", err)
		}
		for _, tagName := range dedupeNames(input.Tags) {
			if _, err := tx.TagRepo().FindOrCreate(project.ID, tagName); err != nil {
				return errs.NewDatabaseError("create", "project tag", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	hydrated, err := s.db.ProjectRepo().FindByID(project.ID)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find created", "project", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.ProjectCreated, hydrated.ID, ownerID, hydrated),
	}
	return hydrated, events, nil
}

// ListForUser returns the projects the user owns or belongs to.
func (s *ProjectService) ListForUser(userID uuid.UUID, filter database.ProjectFilter) ([]*models.Project, int64, error) {
	projects, total, err := s.db.ProjectRepo().FindForUser(userID, filter)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("find", "projects", err)
	}
	return projects, total, nil
}

// GetByID returns the project if the caller may see it. A nonexistent project
// and an inaccessible one produce the identical error.
func (s *ProjectService) GetByID(projectID, userID uuid.UUID) (*models.Project, error) {
	project, err := s.db.ProjectRepo().FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundOrDenied("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}

	if project.OwnerID != userID {
		if err := s.membership.AssertMember(projectID, userID); err != nil {
			return nil, errs.NotFoundOrDenied("project")
		}
	}
	return project, nil
}

// Update patches scalar fields and, when columns or tags are supplied,
// replaces those sets wholesale (delete-all-then-reinsert, not a merge).
func (s *ProjectService) Update(projectID uuid.UUID, input UpdateProjectInput, userID uuid.UUID) (*models.Project, []realtime.Event, error) {
	if err := s.membership.AssertEditor(projectID, userID); err != nil {
		return nil, nil, err
	}

	project, err := s.db.ProjectRepo().FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, errs.NotFoundOrDenied("project")
	}
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find", "project", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, nil, errs.NewValidationError("name", "name cannot be empty")
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, nil, errs.NewValidationError("priority", "unknown priority")
		}
		project.Priority = *input.Priority
	}
	if input.Color != nil {
		project.Color = *input.Color
	}
	if input.DueDate != nil {
		project.DueDate = input.DueDate
	} else if input.ClearDue {
		project.DueDate = nil
	}
	if input.Settings != nil {
		project.Settings = *input.Settings
	}

	err = s.db.Transaction(func(tx database.Database) error {
		if err := tx.ProjectRepo().Update(project); err != nil {
			return errs.NewDatabaseError("update", "project", err)
		}
		if input.Columns != nil {
			columns := make([]models.ProjectColumn, 0, len(*input.Columns))
			for i, c := range *input.Columns {
				name := strings.TrimSpace(c.Name)
				if name == "" {
					return errs.NewValidationError("columns", "column name cannot be empty")
				}
				columns = append(columns, models.ProjectColumn{
					ID:        uuid.New(),
					ProjectID: projectID,
					Name:      name,
					Position:  i,
					Color:     c.Color,
				})
			}
			if err := tx.ColumnRepo().Replace(projectID, columns); err != nil {
				return errs.NewDatabaseError("replace", "project columns", err)
			}
		}
		if input.Tags != nil {
			tags := make([]models.ProjectTag, 0, len(*input.Tags))
			for _, name := range dedupeNames(*input.Tags) {
				tags = append(tags, models.ProjectTag{
					ID:        uuid.New(),
					ProjectID: projectID,
					Name:      name,
				})
			}
			if err := tx.TagRepo().Replace(projectID, tags); err != nil {
				return errs.NewDatabaseError("replace", "project tags", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	hydrated, err := s.db.ProjectRepo().FindByID(projectID)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find updated", "project", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.ProjectUpdated, projectID, userID, hydrated),
	}
	return hydrated, events, nil
}

// Delete removes the project and everything it owns. Only the owner may do
// this; ADMIN is not enough.
func (s *ProjectService) Delete(projectID, userID uuid.UUID) ([]realtime.Event, error) {
	project, err := s.db.ProjectRepo().FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundOrDenied("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}

	if project.OwnerID != userID {
		return nil, errs.InsufficientPermissions("delete this project")
	}

	err = s.db.Transaction(func(tx database.Database) error {
		return tx.ProjectRepo().Delete(projectID)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("delete", "project", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.ProjectDeleted, projectID, userID, map[string]any{"id": projectID}),
	}
	return events, nil
}

// AddMember invites a user by email with the requested role. The OWNER role
// is reserved for the creating transaction; there is exactly one owner.
func (s *ProjectService) AddMember(projectID uuid.UUID, input AddMemberInput, actorID uuid.UUID) (*models.ProjectMember, []realtime.Event, error) {
	if err := s.membership.AssertEditor(projectID, actorID); err != nil {
		return nil, nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if role == models.RoleOwner || !role.Valid() {
		return nil, nil, errs.NewValidationError("role", "role must be ADMIN or MEMBER")
	}

	user, err := s.db.UserRepo().FindByEmail(input.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, errs.UserNotFound()
	}
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find user", "user", err)
	}

	existing, err := s.db.MemberRepo().Find(projectID, user.ID)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find membership", "project member", err)
	}
	if existing != nil {
		return nil, nil, errs.AlreadyMember()
	}

	member := &models.ProjectMember{
		UserID:    user.ID,
		ProjectID: projectID,
		Role:      role,
		User:      user,
	}
	if err := s.db.MemberRepo().Add(member); err != nil {
		if errs.IsUniqueViolation(err) {
			return nil, nil, errs.AlreadyMember()
		}
		return nil, nil, errs.NewDatabaseError("create", "project member", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.MemberAdded, projectID, actorID, member),
	}
	return member, events, nil
}

// RemoveMember removes a membership. The owner's row is irremovable for the
// project's entire lifetime.
func (s *ProjectService) RemoveMember(projectID, memberUserID, actorID uuid.UUID) ([]realtime.Event, error) {
	if err := s.membership.AssertEditor(projectID, actorID); err != nil {
		return nil, err
	}

	project, err := s.db.ProjectRepo().FindByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundOrDenied("project")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}

	if memberUserID == project.OwnerID {
		return nil, errs.CannotRemoveOwner()
	}

	member, err := s.db.MemberRepo().Find(projectID, memberUserID)
	if err != nil {
		return nil, errs.NewDatabaseError("find membership", "project member", err)
	}
	if member == nil {
		return nil, errs.NotFoundOrDenied("member")
	}

	if err := s.db.MemberRepo().Remove(projectID, memberUserID); err != nil {
		return nil, errs.NewDatabaseError("delete", "project member", err)
	}

	events := []realtime.Event{
		realtime.NewEvent(realtime.MemberRemoved, projectID, actorID, map[string]any{
			"project_id": projectID,
			"user_id":    memberUserID,
		}),
	}
	return events, nil
}

func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
