package repositories

import (
	"errors"
	"strings"
	"time"

	"hrflow_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPositionNotFound  = errors.New("job position not found")
	ErrPositionNameTaken = errors.New("job position name already exists")
	// ErrStatusChanged - условный UPDATE не нашел строку в ожидаемом статусе
	ErrStatusChanged = errors.New("status was changed concurrently")
)

type JobPositionRepository interface {
	Create(db *gorm.DB, position *models.JobPosition) error
	FindByID(db *gorm.DB, id string) (*models.JobPosition, error)
	Update(db *gorm.DB, position *models.JobPosition) error
	// UpdateStatus переводит позицию from -> to, только если она все еще в from
	UpdateStatus(db *gorm.DB, id string, from, to models.PositionStatus, fields map[string]interface{}) error
	FindWithFilter(db *gorm.DB, filter PositionFilter) ([]models.JobPosition, int64, error)
	FindPublic(db *gorm.DB, now time.Time) ([]models.JobPosition, error)
	FindExpiredOpen(db *gorm.DB, now time.Time) ([]models.JobPosition, error)
	// CountByStatus: requestedByID != "" ограничивает вакансиями менеджера
	CountByStatus(db *gorm.DB, requestedByID string) (map[models.PositionStatus]int64, error)
}

type PositionFilter struct {
	Status        models.PositionStatus
	IsArchived    *bool
	RequestedByID string
	Search        string
	Page          int
	PageSize      int
}

type jobPositionRepository struct{}

func NewJobPositionRepository() JobPositionRepository {
	return &jobPositionRepository{}
}

func (r *jobPositionRepository) Create(db *gorm.DB, position *models.JobPosition) error {
	if err := r.checkNameFree(db, position.Name, ""); err != nil {
		return err
	}
	if err := db.Create(position).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPositionNameTaken
		}
		return err
	}
	return nil
}

func (r *jobPositionRepository) FindByID(db *gorm.DB, id string) (*models.JobPosition, error) {
	var position models.JobPosition
	err := db.Preload("RequestedBy").First(&position, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	return &position, nil
}

// Update сохраняет редактируемые поля; статус меняется только через UpdateStatus
func (r *jobPositionRepository) Update(db *gorm.DB, position *models.JobPosition) error {
	if err := r.checkNameFree(db, position.Name, position.ID); err != nil {
		return err
	}
	result := db.Model(position).
		Select("name", "location", "registration_start_date", "registration_end_date",
			"specific_requirements", "available_slots", "announcement", "is_archived").
		Updates(position)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrPositionNameTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPositionNotFound
	}
	return nil
}

func (r *jobPositionRepository) UpdateStatus(db *gorm.DB, id string, from, to models.PositionStatus, fields map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := db.Model(&models.JobPosition{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *jobPositionRepository) FindWithFilter(db *gorm.DB, filter PositionFilter) ([]models.JobPosition, int64, error) {
	query := db.Model(&models.JobPosition{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.IsArchived != nil {
		query = query.Where("is_archived = ?", *filter.IsArchived)
	}
	if filter.RequestedByID != "" {
		query = query.Where("requested_by_id = ?", filter.RequestedByID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var positions []models.JobPosition
	err := paginate(query, filter.Page, filter.PageSize).
		Preload("RequestedBy").
		Order("created_at DESC").
		Find(&positions).Error
	return positions, total, err
}

// FindPublic - открытые, не архивные, окно регистрации включает now (или не задано)
func (r *jobPositionRepository) FindPublic(db *gorm.DB, now time.Time) ([]models.JobPosition, error) {
	var positions []models.JobPosition
	err := db.Where("status = ? AND is_archived = ?", models.PositionStatusOpen, false).
		Where("registration_start_date IS NULL OR registration_start_date <= ?", now).
		Where("registration_end_date IS NULL OR registration_end_date >= ?", now).
		Order("registration_end_date ASC, name ASC").
		Find(&positions).Error
	return positions, err
}

// FindExpiredOpen - открытые позиции с истекшей регистрацией (для авто-закрытия)
func (r *jobPositionRepository) FindExpiredOpen(db *gorm.DB, now time.Time) ([]models.JobPosition, error) {
	var positions []models.JobPosition
	err := db.Where("status = ? AND registration_end_date IS NOT NULL AND registration_end_date < ?",
		models.PositionStatusOpen, now).
		Find(&positions).Error
	return positions, err
}

func (r *jobPositionRepository) CountByStatus(db *gorm.DB, requestedByID string) (map[models.PositionStatus]int64, error) {
	var rows []struct {
		Status models.PositionStatus
		Count  int64
	}
	query := db.Model(&models.JobPosition{}).
		Select("status, COUNT(*) AS count").
		Where("is_archived = ?", false)
	if requestedByID != "" {
		query = query.Where("requested_by_id = ?", requestedByID)
	}
	err := query.Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.PositionStatus]int64, len(models.PositionStatuses))
	for _, s := range models.PositionStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *jobPositionRepository) checkNameFree(db *gorm.DB, name, excludeID string) error {
	query := db.Model(&models.JobPosition{}).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrPositionNameTaken
	}
	return nil
}
