package repositories

import (
	"errors"
	"time"

	"hrflow_backend/internal/models"

	"gorm.io/gorm"
)

var ErrScheduleNotFound = errors.New("schedule not found")

type ScheduleRepository interface {
	Create(db *gorm.DB, schedule *models.Schedule) error
	FindByID(db *gorm.DB, id string) (*models.Schedule, error)
	Update(db *gorm.DB, schedule *models.Schedule) error
	Delete(db *gorm.DB, id string) error
	FindInRange(db *gorm.DB, from, to *time.Time, kind models.ScheduleKind) ([]models.Schedule, error)
	// FindOverlapping - записи, пересекающие [start, end); excludeID пропускается
	FindOverlapping(db *gorm.DB, start, end time.Time, excludeID string) ([]models.Schedule, error)
	// CountUpcoming: managerID != "" оставляет только события по заявкам менеджера
	CountUpcoming(db *gorm.DB, from, to time.Time, managerID string, kinds ...models.ScheduleKind) (int64, error)
}

type scheduleRepository struct{}

func NewScheduleRepository() ScheduleRepository {
	return &scheduleRepository{}
}

func (r *scheduleRepository) Create(db *gorm.DB, schedule *models.Schedule) error {
	return db.Create(schedule).Error
}

func (r *scheduleRepository) FindByID(db *gorm.DB, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := db.First(&schedule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) Update(db *gorm.DB, schedule *models.Schedule) error {
	result := db.Model(schedule).
		Select("title", "start_date", "end_date", "description").
		Updates(schedule)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *scheduleRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Schedule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *scheduleRepository) FindInRange(db *gorm.DB, from, to *time.Time, kind models.ScheduleKind) ([]models.Schedule, error) {
	query := db.Model(&models.Schedule{})
	if from != nil {
		query = query.Where("end_date > ?", from.UTC())
	}
	if to != nil {
		query = query.Where("start_date < ?", to.UTC())
	}
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var schedules []models.Schedule
	err := query.Order("start_date ASC").Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepository) FindOverlapping(db *gorm.DB, start, end time.Time, excludeID string) ([]models.Schedule, error) {
	query := db.Where("start_date < ? AND end_date > ?", end.UTC(), start.UTC())
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var schedules []models.Schedule
	err := query.Order("start_date ASC").Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepository) CountUpcoming(db *gorm.DB, from, to time.Time, managerID string, kinds ...models.ScheduleKind) (int64, error) {
	query := db.Model(&models.Schedule{}).
		Where("start_date >= ? AND start_date < ?", from.UTC(), to.UTC())
	if len(kinds) > 0 {
		query = query.Where("kind IN ?", kinds)
	}
	if managerID != "" {
		query = query.Where("application_id IN (?)", ManagedApplicationIDs(db, managerID))
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
