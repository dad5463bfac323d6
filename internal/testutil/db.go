// Package testutil - общие хелперы для тестов: in-memory БД и фабрики сущностей.
package testutil

import (
	"testing"
	"time"

	"hrflow_backend/database"
	"hrflow_backend/internal/auth"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MemoryDSN - отдельная sqlite-база на соединение, с включенными внешними ключами
const MemoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// NewTestDB открывает чистую мигрированную БД
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init("test")

	db, err := database.Open("sqlite", MemoryDSN, "test")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser создает пользователя с паролем "password123"
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole, email string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Name:         string(role) + " user",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if role == models.UserRoleManager {
		dept := "Engineering"
		user.Department = &dept
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePosition создает вакансию в нужном статусе
func CreatePosition(t *testing.T, db *gorm.DB, name string, status models.PositionStatus, requestedBy *models.User) *models.JobPosition {
	t.Helper()
	position := &models.JobPosition{
		Name:                 name,
		Location:             "Remote",
		SpecificRequirements: "<p>Go, SQL</p>",
		AvailableSlots:       2,
		Status:               status,
	}
	if requestedBy != nil {
		position.RequestedByID = &requestedBy.ID
	}
	require.NoError(t, db.Create(position).Error)
	return position
}

// CreateApplication создает заявку в нужном статусе
func CreateApplication(t *testing.T, db *gorm.DB, position *models.JobPosition, status models.ApplicationStatus) *models.CvApplication {
	t.Helper()
	app := &models.CvApplication{
		FullName:        "Jane Candidate",
		Email:           "jane." + time.Now().Format("150405.000000") + "@example.com",
		CvFileName:      "cv.pdf",
		CvFileObjectKey: "cv/test/cv.pdf",
		Qualification:   "BSc Computer Science",
		AgreeTerms:      true,
		Status:          status,
	}
	if position != nil {
		app.AppliedPositionID = &position.ID
	}
	require.NoError(t, db.Create(app).Error)
	return app
}
