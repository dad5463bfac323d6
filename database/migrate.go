package database

import (
	"fmt"
	"time"

	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/models"

	"gorm.io/gorm"
)

// SchemaMigration - запись о примененной миграции
type SchemaMigration struct {
	ID        string    `gorm:"type:varchar(100);primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}

// Migration - один шаг схемы. Шаги применяются строго по порядку и один раз.
type Migration struct {
	ID      string
	Migrate func(tx *gorm.DB) error
}

// Migrations - история схемы. Новые шаги добавлять только в конец.
var Migrations = []Migration{
	{
		ID: "0001_create_users",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.User{}, &models.RefreshToken{})
		},
	},
	{
		// старые установки хранили вакансии в internship_positions
		ID:      "0002_rename_internship_positions",
		Migrate: renameInternshipPositions,
	},
	{
		ID: "0003_create_job_positions",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.JobPosition{})
		},
	},
	{
		ID: "0004_create_cv_applications",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.CvApplication{})
		},
	},
	{
		ID: "0005_create_schedules",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Schedule{})
		},
	},
	{
		ID: "0006_create_application_status_history",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.ApplicationStatusHistory{})
		},
	},
}

// Migrate применяет все новые миграции
func Migrate(db *gorm.DB) error {
	return MigrateSteps(db, Migrations)
}

// MigrateSteps применяет переданный список; выделено для тестов
func MigrateSteps(db *gorm.DB, steps []Migration) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var applied []SchemaMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, m := range applied {
		done[m.ID] = true
	}

	for _, step := range steps {
		if done[step.ID] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := step.Migrate(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{ID: step.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", step.ID, err)
		}
		logger.Info("migration applied", "id", step.ID)
	}
	return nil
}

// Applied возвращает ID примененных миграций по порядку применения
func Applied(db *gorm.DB) ([]string, error) {
	var rows []SchemaMigration
	if err := db.Order("applied_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func renameInternshipPositions(tx *gorm.DB) error {
	m := tx.Migrator()
	if m.HasTable("internship_positions") && !m.HasTable("job_positions") {
		return m.RenameTable("internship_positions", "job_positions")
	}
	return nil
}
