package database_test

import (
	"errors"
	"testing"

	"hrflow_backend/database"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.Migrate(db))

	ids, err := database.Applied(db)
	require.NoError(t, err)
	assert.Len(t, ids, len(database.Migrations))
	for _, table := range []string{"users", "refresh_tokens", "job_positions", "cv_applications", "schedules", "application_status_history"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestMigrateStopsOnFailedStep(t *testing.T) {
	db := testutil.NewTestDB(t)

	steps := []database.Migration{
		{ID: "9001_ok", Migrate: func(tx *gorm.DB) error { return nil }},
		{ID: "9002_broken", Migrate: func(tx *gorm.DB) error { return errors.New("boom") }},
		{ID: "9003_never", Migrate: func(tx *gorm.DB) error { return nil }},
	}
	err := database.MigrateSteps(db, steps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "9002_broken")

	ids, err := database.Applied(db)
	require.NoError(t, err)
	assert.Contains(t, ids, "9001_ok")
	assert.NotContains(t, ids, "9002_broken")
	assert.NotContains(t, ids, "9003_never")
}

func TestIsUniqueViolationOnDuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, models.UserRoleStaffHR, "dup@example.com")

	err := db.Create(&models.User{Name: "Other", Email: "dup@example.com", PasswordHash: "x", Role: models.UserRoleStaffHR}).Error
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsUniqueViolation(errors.New("connection reset")))
	assert.False(t, database.IsUniqueViolation(nil))
}

func TestDeletingUserNullsRequestedBy(t *testing.T) {
	db := testutil.NewTestDB(t)
	manager := testutil.CreateUser(t, db, models.UserRoleManager, "mgr@example.com")
	position := testutil.CreatePosition(t, db, "Backend Intern", models.PositionStatusDraft, manager)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", manager.ID).Error)

	var reloaded models.JobPosition
	require.NoError(t, db.First(&reloaded, "id = ?", position.ID).Error)
	assert.Nil(t, reloaded.RequestedByID)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open("oracle", "whatever", "test")
	assert.Error(t, err)
}
