package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brightboard-Labs/brightboard/backend/models"
)

func TestDashboardAggregatesAssignedWork(t *testing.T) {
	db, projects, tasks := setupServices(t)
	dashboards := NewDashboardService(db)
	owner := createTestUser(t, db, "owner@example.com")
	helper := createTestUser(t, db, "helper@example.com")
	project := createTestProject(t, projects, owner.ID, "Board")
	addTestMember(t, projects, project.ID, "helper@example.com", models.RoleMember, owner.ID)

	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)
	soon := now.Add(48 * time.Hour)

	_, _, err := tasks.Create(project.ID, CreateTaskInput{
		Title:      "overdue",
		DueDate:    &yesterday,
		AssigneeID: &helper.ID,
	}, owner.ID)
	require.NoError(t, err)

	_, _, err = tasks.Create(project.ID, CreateTaskInput{
		Title:      "upcoming",
		DueDate:    &soon,
		AssigneeID: &helper.ID,
	}, owner.ID)
	require.NoError(t, err)

	// finished work never counts as overdue, no matter the due date
	_, _, err = tasks.Create(project.ID, CreateTaskInput{
		Title:      "finished late",
		Status:     "Done",
		DueDate:    &yesterday,
		AssigneeID: &helper.ID,
	}, owner.ID)
	require.NoError(t, err)

	// someone else's task stays off this dashboard
	_, _, err = tasks.Create(project.ID, CreateTaskInput{
		Title:      "not mine",
		AssigneeID: &owner.ID,
	}, owner.ID)
	require.NoError(t, err)

	dashboard, err := dashboards.Build(helper.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), dashboard.TotalAssigned)
	assert.Equal(t, 1, dashboard.OverdueCount)
	require.Len(t, dashboard.Overdue, 1)
	assert.Equal(t, "overdue", dashboard.Overdue[0].Title)
	require.Len(t, dashboard.Upcoming, 1)
	assert.Equal(t, "upcoming", dashboard.Upcoming[0].Title)

	var total int64
	for _, c := range dashboard.TaskCounts {
		total += c.Count
	}
	assert.Equal(t, dashboard.TotalAssigned, total)

	// recent activity spans every project the user belongs to
	assert.NotEmpty(t, dashboard.RecentTasks)
}

func TestDashboardRecentComments(t *testing.T) {
	db, projects, tasks := setupServices(t)
	dashboards := NewDashboardService(db)
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, projects, owner.ID, "Board")

	task, _, err := tasks.Create(project.ID, CreateTaskInput{Title: "talked about"}, owner.ID)
	require.NoError(t, err)
	_, _, err = tasks.AddComment(task.ID, "status?", owner.ID)
	require.NoError(t, err)

	dashboard, err := dashboards.Build(owner.ID)
	require.NoError(t, err)
	require.Len(t, dashboard.RecentComments, 1)
	assert.Equal(t, "status?", dashboard.RecentComments[0].Content)
}

func TestMyTasksExcludesArchived(t *testing.T) {
	db, projects, tasks := setupServices(t)
	dashboards := NewDashboardService(db)
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, projects, owner.ID, "Board")

	keep, _, err := tasks.Create(project.ID, CreateTaskInput{Title: "keep", AssigneeID: &owner.ID}, owner.ID)
	require.NoError(t, err)
	gone, _, err := tasks.Create(project.ID, CreateTaskInput{Title: "gone", AssigneeID: &owner.ID}, owner.ID)
	require.NoError(t, err)

	yes := true
	_, _, err = tasks.Update(gone.ID, UpdateTaskInput{Archived: &yes}, owner.ID)
	require.NoError(t, err)

	mine, err := dashboards.MyTasks(owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, keep.ID, mine[0].ID)
}
