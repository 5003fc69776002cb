package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Brightboard-Labs/brightboard/backend/database"
	"github.com/Brightboard-Labs/brightboard/backend/models"
)

// setupTestDB opens an in-memory sqlite database private to the test and
// migrates the full schema into it.
func setupTestDB(t *testing.T) database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return database.New(db)
}

func setupServices(t *testing.T) (database.Database, *ProjectService, *TaskService) {
	t.Helper()
	db := setupTestDB(t)
	membership := NewMembership(db)
	return db, NewProjectService(db, membership), NewTaskService(db, membership)
}

func createTestUser(t *testing.T, db database.Database, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.Split(email, "@")[0],
		PasswordHash: "not-a-real-hash",
		Role:         models.UserRoleOrdinary,
		IsActive:     true,
	}
	require.NoError(t, db.UserRepo().Add(user))
	return user
}

func createTestProject(t *testing.T, svc *ProjectService, ownerID uuid.UUID, name string) *models.Project {
	t.Helper()
	project, _, err := svc.Create(CreateProjectInput{Name: name}, ownerID)
	require.NoError(t, err)
	return project
}

func addTestMember(t *testing.T, svc *ProjectService, projectID uuid.UUID, email string, role models.Role, actorID uuid.UUID) {
	t.Helper()
	_, _, err := svc.AddMember(projectID, AddMemberInput{Email: email, Role: role}, actorID)
	require.NoError(t, err)
}
