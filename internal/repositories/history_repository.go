package repositories

import (
	"hrflow_backend/internal/models"

	"gorm.io/gorm"
)

type HistoryRepository interface {
	Create(db *gorm.DB, entry *models.ApplicationStatusHistory) error
	FindByApplication(db *gorm.DB, applicationID string) ([]models.ApplicationStatusHistory, error)
}

type historyRepository struct{}

func NewHistoryRepository() HistoryRepository {
	return &historyRepository{}
}

func (r *historyRepository) Create(db *gorm.DB, entry *models.ApplicationStatusHistory) error {
	return db.Create(entry).Error
}

func (r *historyRepository) FindByApplication(db *gorm.DB, applicationID string) ([]models.ApplicationStatusHistory, error) {
	var entries []models.ApplicationStatusHistory
	err := db.Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
