package repositories

import (
	"errors"
	"strings"
	"time"

	"hrflow_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.CvApplication) error
	FindByID(db *gorm.DB, id string) (*models.CvApplication, error)
	FindWithFilter(db *gorm.DB, filter ApplicationFilter) ([]models.CvApplication, int64, error)

	// UpdateStatus - условный переход from -> to вместе с заметками и доп. полями
	UpdateStatus(db *gorm.DB, id string, from, to models.ApplicationStatus, notes models.InterviewNotes, fields map[string]interface{}) error
	// UpdateNotes перезаписывает JSON заметок без смены статуса (статус проверяется)
	UpdateNotes(db *gorm.DB, id string, status models.ApplicationStatus, notes models.InterviewNotes) error
	SetArchived(db *gorm.DB, id string, archived bool) error
	// UpdateScoring пишет результаты AI-скоринга без смены статуса
	UpdateScoring(db *gorm.DB, id string, fields map[string]interface{}) error

	FindForScoring(db *gorm.DB, limit int) ([]models.CvApplication, error)

	// Дашборд
	// managerID != "" в счетчиках ограничивает заявками на вакансии менеджера
	CountByStatus(db *gorm.DB, managerID string) (map[models.ApplicationStatus]int64, error)
	FindRecent(db *gorm.DB, limit int) ([]models.CvApplication, error)
	CountReachedStatusSince(db *gorm.DB, status models.ApplicationStatus, since time.Time, managerID string) (int64, error)
	CreatedSince(db *gorm.DB, since time.Time) ([]time.Time, error)
	CountByPosition(db *gorm.DB, since time.Time) ([]PositionCount, error)
}

type ApplicationFilter struct {
	Status     models.ApplicationStatus
	PositionID string
	IsArchived *bool
	Search     string
	// ManagerID ограничивает выборку вакансиями, которые запрашивал менеджер
	ManagerID string
	Page      int
	PageSize  int
}

type PositionCount struct {
	PositionID   *string `json:"position_id"`
	PositionName *string `json:"position_name"`
	Count        int64   `json:"count"`
}

type applicationRepository struct{}

func NewApplicationRepository() ApplicationRepository {
	return &applicationRepository{}
}

func (r *applicationRepository) Create(db *gorm.DB, app *models.CvApplication) error {
	app.Email = normalizeEmail(app.Email)
	return db.Create(app).Error
}

func (r *applicationRepository) FindByID(db *gorm.DB, id string) (*models.CvApplication, error) {
	var app models.CvApplication
	err := db.Preload("AppliedPosition").First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindWithFilter(db *gorm.DB, filter ApplicationFilter) ([]models.CvApplication, int64, error) {
	query := db.Model(&models.CvApplication{})

	if filter.Status != "" {
		query = query.Where("cv_applications.status = ?", filter.Status)
	}
	if filter.PositionID != "" {
		query = query.Where("cv_applications.applied_position_id = ?", filter.PositionID)
	}
	if filter.IsArchived != nil {
		query = query.Where("cv_applications.is_archived = ?", *filter.IsArchived)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(cv_applications.full_name) LIKE ? OR LOWER(cv_applications.email) LIKE ?", like, like)
	}
	if filter.ManagerID != "" {
		query = query.Where("cv_applications.applied_position_id IN (?)", ManagedPositionIDs(db, filter.ManagerID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.CvApplication
	err := paginate(query, filter.Page, filter.PageSize).
		Preload("AppliedPosition").
		Order("cv_applications.created_at DESC").
		Find(&apps).Error
	return apps, total, err
}

func (r *applicationRepository) UpdateStatus(db *gorm.DB, id string, from, to models.ApplicationStatus, notes models.InterviewNotes, fields map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":          to,
		"interview_notes": datatypes.NewJSONType(notes),
		"updated_at":      time.Now().UTC(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := db.Model(&models.CvApplication{}).
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

func (r *applicationRepository) UpdateNotes(db *gorm.DB, id string, status models.ApplicationStatus, notes models.InterviewNotes) error {
	result := db.Model(&models.CvApplication{}).
		Where("id = ? AND status = ?", id, status).
		Updates(map[string]interface{}{
			"interview_notes": datatypes.NewJSONType(notes),
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *applicationRepository) SetArchived(db *gorm.DB, id string, archived bool) error {
	result := db.Model(&models.CvApplication{}).Where("id = ?", id).Update("is_archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *applicationRepository) UpdateScoring(db *gorm.DB, id string, fields map[string]interface{}) error {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		updates[k] = v
	}
	result := db.Model(&models.CvApplication{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// FindForScoring - самые старые SUBMITTED заявки с файлом CV
func (r *applicationRepository) FindForScoring(db *gorm.DB, limit int) ([]models.CvApplication, error) {
	var apps []models.CvApplication
	err := db.Preload("AppliedPosition").
		Where("status = ? AND is_archived = ? AND cv_file_object_key <> ''", models.ApplicationStatusSubmitted, false).
		Order("created_at ASC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) CountByStatus(db *gorm.DB, managerID string) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		Status models.ApplicationStatus
		Count  int64
	}
	query := db.Model(&models.CvApplication{}).
		Select("status, COUNT(*) AS count").
		Where("is_archived = ?", false)
	if managerID != "" {
		query = query.Where("applied_position_id IN (?)", ManagedPositionIDs(db, managerID))
	}
	err := query.Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ApplicationStatus]int64, len(models.ApplicationStatuses))
	for _, s := range models.ApplicationStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *applicationRepository) FindRecent(db *gorm.DB, limit int) ([]models.CvApplication, error) {
	var apps []models.CvApplication
	err := db.Preload("AppliedPosition").
		Where("is_archived = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}

// CountReachedStatusSince считает по журналу переходов, а не по текущему статусу:
// нанятый в этом месяце и уже ушедший в онбординг тоже учитывается
func (r *applicationRepository) CountReachedStatusSince(db *gorm.DB, status models.ApplicationStatus, since time.Time, managerID string) (int64, error) {
	var count int64
	query := db.Model(&models.ApplicationStatusHistory{}).
		Where("to_status = ? AND created_at >= ?", status, since)
	if managerID != "" {
		query = query.Where("application_id IN (?)", ManagedApplicationIDs(db, managerID))
	}
	err := query.Distinct("application_id").Count(&count).Error
	return count, err
}

// ManagedPositionIDs - подзапрос id вакансий, заявленных менеджером
func ManagedPositionIDs(db *gorm.DB, managerID string) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).Model(&models.JobPosition{}).
		Select("id").Where("requested_by_id = ?", managerID)
}

// ManagedApplicationIDs - подзапрос id заявок на вакансии менеджера
func ManagedApplicationIDs(db *gorm.DB, managerID string) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).Model(&models.CvApplication{}).
		Select("id").Where("applied_position_id IN (?)", ManagedPositionIDs(db, managerID))
}

func (r *applicationRepository) CreatedSince(db *gorm.DB, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := db.Model(&models.CvApplication{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	return times, err
}

func (r *applicationRepository) CountByPosition(db *gorm.DB, since time.Time) ([]PositionCount, error) {
	var rows []PositionCount
	err := db.Model(&models.CvApplication{}).
		Select("cv_applications.applied_position_id AS position_id, job_positions.name AS position_name, COUNT(*) AS count").
		Joins("LEFT JOIN job_positions ON job_positions.id = cv_applications.applied_position_id").
		Where("cv_applications.created_at >= ?", since).
		Group("cv_applications.applied_position_id, job_positions.name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
