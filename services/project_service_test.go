package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brightboard-Labs/brightboard/backend/database"
	"github.com/Brightboard-Labs/brightboard/backend/errs"
	"github.com/Brightboard-Labs/brightboard/backend/models"
	"github.com/Brightboard-Labs/brightboard/backend/realtime"
)

func TestCreateProjectSeedsDefaults(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")

	project, events, err := projects.Create(CreateProjectInput{
		Name: "  Launch Plan  ",
		Tags: []string{"infra", "infra", " ui "},
	}, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "Launch Plan", project.Name)
	assert.Equal(t, models.ProjectActive, project.Status)
	assert.Equal(t, models.PriorityMedium, project.Priority)
	assert.Equal(t, owner.ID, project.OwnerID)
	assert.True(t, project.Settings.AllowComments)

	require.Len(t, project.Members, 1)
	assert.Equal(t, owner.ID, project.Members[0].UserID)
	assert.Equal(t, models.RoleOwner, project.Members[0].Role)

	require.Len(t, project.Columns, 4)
	wantColumns := []struct {
		name  string
		color string
	}{
		{"To Do", "#6b7280"},
		{"In Progress", "#3b82f6"},
		{"Review", "#f59e0b"},
		{"Done", "#10b981"},
	}
	for i, want := range wantColumns {
		assert.Equal(t, want.name, project.Columns[i].Name)
		assert.Equal(t, want.color, project.Columns[i].Color)
		assert.Equal(t, i, project.Columns[i].Position)
	}

	assert.Len(t, project.Tags, 2)

	require.Len(t, events, 1)
	assert.Equal(t, realtime.ProjectCreated, events[0].Kind)
	assert.Equal(t, project.ID, events[0].ProjectID)
	assert.Equal(t, owner.ID, events[0].ActorID)
}

func TestCreateProjectRequiresName(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")

	_, _, err := projects.Create(CreateProjectInput{Name: "   "}, owner.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidationFailed))
}

func TestGetProjectDoesNotRevealExistence(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	project := createTestProject(t, projects, owner.ID, "Secret Board")

	_, errMissing := projects.GetByID(uuid.New(), owner.ID)
	require.Error(t, errMissing)
	assert.True(t, errs.IsNotFoundOrDenied(errMissing))

	_, errDenied := projects.GetByID(project.ID, stranger.ID)
	require.Error(t, errDenied)
	assert.True(t, errs.IsNotFoundOrDenied(errDenied))

	// a non-member must not be able to tell the two cases apart
	assert.Equal(t, errMissing.Error(), errDenied.Error())
}

func TestMemberInvitationAndRoles(t *testing.T) {
	db, projects, tasks := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	invited := createTestUser(t, db, "invited@example.com")
	project := createTestProject(t, projects, owner.ID, "Team Board")

	member, events, err := projects.AddMember(project.ID, AddMemberInput{Email: "invited@example.com"}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, member.Role)
	assert.Equal(t, invited.ID, member.UserID)
	require.Len(t, events, 1)
	assert.Equal(t, realtime.MemberAdded, events[0].Kind)

	// a plain member can read the project and work with its tasks
	_, err = projects.GetByID(project.ID, invited.ID)
	require.NoError(t, err)
	_, _, err = tasks.Create(project.ID, CreateTaskInput{Title: "First task"}, invited.ID)
	require.NoError(t, err)
	listed, err := tasks.ListForProject(project.ID, invited.ID, database.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// but cannot change the project or its membership
	name := "Renamed"
	_, _, err = projects.Update(project.ID, UpdateProjectInput{Name: &name}, invited.ID)
	assert.True(t, errs.IsInsufficientPermissions(err))
	_, err = projects.RemoveMember(project.ID, owner.ID, invited.ID)
	assert.True(t, errs.IsInsufficientPermissions(err))
}

func TestAddMemberRejectsBadInput(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	createTestUser(t, db, "invited@example.com")
	project := createTestProject(t, projects, owner.ID, "Team Board")

	_, _, err := projects.AddMember(project.ID, AddMemberInput{Email: "nobody@example.com"}, owner.ID)
	assert.True(t, errors.Is(err, errs.ErrUserNotFound))

	_, _, err = projects.AddMember(project.ID, AddMemberInput{Email: "invited@example.com", Role: models.RoleOwner}, owner.ID)
	assert.True(t, errors.Is(err, errs.ErrValidationFailed))

	addTestMember(t, projects, project.ID, "invited@example.com", models.RoleMember, owner.ID)
	_, _, err = projects.AddMember(project.ID, AddMemberInput{Email: "invited@example.com"}, owner.ID)
	assert.True(t, errors.Is(err, errs.ErrAlreadyMember))
}

func TestOwnerMembershipIsPermanent(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	project := createTestProject(t, projects, owner.ID, "Team Board")
	addTestMember(t, projects, project.ID, "admin@example.com", models.RoleAdmin, owner.ID)

	// nobody can remove the owner, not even the owner themselves
	_, err := projects.RemoveMember(project.ID, owner.ID, admin.ID)
	assert.True(t, errors.Is(err, errs.ErrCannotRemoveOwner))
	_, err = projects.RemoveMember(project.ID, owner.ID, owner.ID)
	assert.True(t, errors.Is(err, errs.ErrCannotRemoveOwner))

	// the owner row survives everything above, and stays unique
	members, err := db.MemberRepo().ListByProject(project.ID)
	require.NoError(t, err)
	owners := 0
	for _, m := range members {
		if m.Role == models.RoleOwner {
			owners++
			assert.Equal(t, owner.ID, m.UserID)
		}
	}
	assert.Equal(t, 1, owners)
}

func TestRemoveMemberRevokesAccess(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	invited := createTestUser(t, db, "invited@example.com")
	project := createTestProject(t, projects, owner.ID, "Team Board")
	addTestMember(t, projects, project.ID, "invited@example.com", models.RoleMember, owner.ID)

	events, err := projects.RemoveMember(project.ID, invited.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, realtime.MemberRemoved, events[0].Kind)

	_, err = projects.GetByID(project.ID, invited.ID)
	assert.True(t, errs.IsNotFoundOrDenied(err))

	// removing them again has nothing to remove, and says so
	events, err = projects.RemoveMember(project.ID, invited.ID, owner.ID)
	assert.True(t, errs.IsNotFoundOrDenied(err))
	assert.Empty(t, events)
}

func TestRemoveMemberRequiresMembership(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	outsider := createTestUser(t, db, "outsider@example.com")
	project := createTestProject(t, projects, owner.ID, "Team Board")

	// the user exists but was never invited; no removal happens and no
	// member-removed event is produced
	events, err := projects.RemoveMember(project.ID, outsider.ID, owner.ID)
	assert.True(t, errs.IsNotFoundOrDenied(err))
	assert.Empty(t, events)
}

func TestUpdateProjectPatchesScalars(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, projects, owner.ID, "Team Board")

	desc := "now with a description"
	status := models.ProjectOnHold
	updated, events, err := projects.Update(project.ID, UpdateProjectInput{
		Description: &desc,
		Status:      &status,
	}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Team Board", updated.Name)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, models.ProjectOnHold, updated.Status)
	require.Len(t, events, 1)
	assert.Equal(t, realtime.ProjectUpdated, events[0].Kind)
}

func TestUpdateProjectReplacesColumnsAndTags(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	project, _, err := projects.Create(CreateProjectInput{
		Name: "Team Board",
		Tags: []string{"old"},
	}, owner.ID)
	require.NoError(t, err)

	columns := []ColumnInput{
		{Name: "Backlog", Color: "#111111"},
		{Name: "Shipped", Color: "#222222"},
	}
	tags := []string{"fresh", "fresh", "new"}
	updated, _, err := projects.Update(project.ID, UpdateProjectInput{
		Columns: &columns,
		Tags:    &tags,
	}, owner.ID)
	require.NoError(t, err)

	// wholesale replacement: the defaults and the old tag are gone
	require.Len(t, updated.Columns, 2)
	assert.Equal(t, "Backlog", updated.Columns[0].Name)
	assert.Equal(t, 0, updated.Columns[0].Position)
	assert.Equal(t, "Shipped", updated.Columns[1].Name)
	assert.Equal(t, 1, updated.Columns[1].Position)

	require.Len(t, updated.Tags, 2)
	names := []string{updated.Tags[0].Name, updated.Tags[1].Name}
	assert.Contains(t, names, "fresh")
	assert.Contains(t, names, "new")
}

func TestDefaultColumnsRoundTrip(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	project := createTestProject(t, projects, owner.ID, "Team Board")

	// writing back exactly what Create seeded must be a no-op shape-wise
	columns := make([]ColumnInput, 0, len(project.Columns))
	for _, c := range project.Columns {
		columns = append(columns, ColumnInput{Name: c.Name, Color: c.Color})
	}
	updated, _, err := projects.Update(project.ID, UpdateProjectInput{Columns: &columns}, owner.ID)
	require.NoError(t, err)

	require.Len(t, updated.Columns, len(project.Columns))
	for i := range project.Columns {
		assert.Equal(t, project.Columns[i].Name, updated.Columns[i].Name)
		assert.Equal(t, project.Columns[i].Color, updated.Columns[i].Color)
		assert.Equal(t, project.Columns[i].Position, updated.Columns[i].Position)
	}
}

func TestDeleteProjectIsOwnerOnly(t *testing.T) {
	db, projects, tasks := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	admin := createTestUser(t, db, "admin@example.com")
	project := createTestProject(t, projects, owner.ID, "Team Board")
	addTestMember(t, projects, project.ID, "admin@example.com", models.RoleAdmin, owner.ID)

	task, _, err := tasks.Create(project.ID, CreateTaskInput{Title: "Doomed"}, owner.ID)
	require.NoError(t, err)
	_, _, err = tasks.AddComment(task.ID, "doomed too", owner.ID)
	require.NoError(t, err)

	// ADMIN is not enough to delete
	_, err = projects.Delete(project.ID, admin.ID)
	assert.True(t, errs.IsInsufficientPermissions(err))

	events, err := projects.Delete(project.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, realtime.ProjectDeleted, events[0].Kind)

	// everything the project owned went with it
	_, err = projects.GetByID(project.ID, owner.ID)
	assert.True(t, errs.IsNotFoundOrDenied(err))
	_, err = db.TaskRepo().FindByID(task.ID)
	require.Error(t, err)
	member, err := db.MemberRepo().Find(project.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, member)
	columns, err := db.ColumnRepo().ListByProject(project.ID)
	require.NoError(t, err)
	assert.Empty(t, columns)
}

func TestListForUserSeesOwnedAndJoined(t *testing.T) {
	db, projects, _ := setupServices(t)
	owner := createTestUser(t, db, "owner@example.com")
	invited := createTestUser(t, db, "invited@example.com")

	mine := createTestProject(t, projects, owner.ID, "Mine")
	joined := createTestProject(t, projects, invited.ID, "Theirs")
	addTestMember(t, projects, joined.ID, "owner@example.com", models.RoleMember, invited.ID)
	createTestProject(t, projects, invited.ID, "Not Mine")

	listed, total, err := projects.ListForUser(owner.ID, database.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	ids := make([]uuid.UUID, 0, len(listed))
	for _, p := range listed {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, mine.ID)
	assert.Contains(t, ids, joined.ID)
}
