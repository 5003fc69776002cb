package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Brightboard-Labs/brightboard/backend/database"
	"github.com/Brightboard-Labs/brightboard/backend/errs"
	"github.com/Brightboard-Labs/brightboard/backend/models"
)

const (
	upcomingWindow = 7 * 24 * time.Hour
	activityLimit  = 10
)

// Dashboard is the read-only cross-project summary for one user.
type Dashboard struct {
	TaskCounts     []database.StatusCount `json:"task_counts"`
	TotalAssigned  int64                  `json:"total_assigned"`
	OverdueCount   int                    `json:"overdue_count"`
	Upcoming       []*models.Task         `json:"upcoming"`
	Overdue        []*models.Task         `json:"overdue"`
	RecentTasks    []*models.Task         `json:"recent_tasks"`
	RecentComments []*models.Comment      `json:"recent_comments"`
}

// DashboardService aggregates task state across every project the user
// belongs to. Pure reads; no events.
type DashboardService struct {
	db     database.Database
	logger zerolog.Logger
}

func NewDashboardService(db database.Database) *DashboardService {
	return &DashboardService{
		db:     db,
		logger: log.With().Str("serviceName", "dashboardService").Logger(),
	}
}

// MyTasks returns every non-archived task assigned to the user.
func (s *DashboardService) MyTasks(userID uuid.UUID) ([]*models.Task, error) {
	tasks, err := s.db.TaskRepo().FindByAssignee(userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "assigned tasks", err)
	}
	return tasks, nil
}

// Build assembles the user's dashboard.
func (s *DashboardService) Build(userID uuid.UUID) (*Dashboard, error) {
	now := time.Now().UTC()

	counts, err := s.db.TaskRepo().StatusCounts(userID)
	if err != nil {
		return nil, errs.NewDatabaseError("aggregate", "task status counts", err)
	}
	var total int64
	for _, c := range counts {
		total += c.Count
	}

	upcoming, err := s.db.TaskRepo().DueBetween(userID, now, now.Add(upcomingWindow))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "upcoming tasks", err)
	}

	overdue, err := s.db.TaskRepo().Overdue(userID, now)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "overdue tasks", err)
	}

	projectIDs, err := s.db.MemberRepo().ProjectIDs(userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "member projects", err)
	}

	recentTasks, err := s.db.TaskRepo().RecentInProjects(projectIDs, activityLimit)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recent tasks", err)
	}

	recentComments, err := s.db.CommentRepo().RecentInProjects(projectIDs, activityLimit)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recent comments", err)
	}

	return &Dashboard{
		TaskCounts:     counts,
		TotalAssigned:  total,
		OverdueCount:   len(overdue),
		Upcoming:       upcoming,
		Overdue:        overdue,
		RecentTasks:    recentTasks,
		RecentComments: recentComments,
	}, nil
}
