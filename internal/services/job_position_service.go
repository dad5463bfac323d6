package services

import (
	"context"
	"strings"
	"time"

	"hrflow_backend/internal/events"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/internal/workflow"
	"hrflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// JobPositionService - заявки на вакансии и их жизненный цикл
type JobPositionService interface {
	List(ctx context.Context, db *gorm.DB, actor Actor, filter dto.JobPositionFilter, page, pageSize int) (*dto.JobPositionListResponse, error)
	Get(ctx context.Context, db *gorm.DB, actor Actor, id string) (*dto.JobPositionResponse, error)
	Create(ctx context.Context, db *gorm.DB, actor Actor, req *dto.CreateJobPositionRequest) (*dto.JobPositionResponse, error)
	Update(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.UpdateJobPositionRequest) (*dto.JobPositionResponse, error)

	// Публичная часть
	ListPublic(ctx context.Context, db *gorm.DB) ([]dto.PublicJobPositionResponse, error)
	GetPublic(ctx context.Context, db *gorm.DB, id string) (*dto.PublicJobPositionResponse, error)

	// CloseExpired закрывает OPEN позиции с истекшей регистрацией (воркер)
	CloseExpired(ctx context.Context, db *gorm.DB, now time.Time) (int, error)
}

type jobPositionService struct {
	positionRepo repositories.JobPositionRepository
	bus          events.Bus
	now          func() time.Time
}

func NewJobPositionService(positionRepo repositories.JobPositionRepository, bus events.Bus) JobPositionService {
	return &jobPositionService{
		positionRepo: positionRepo,
		bus:          bus,
		now:          utcNow,
	}
}

func (s *jobPositionService) List(ctx context.Context, db *gorm.DB, actor Actor, filter dto.JobPositionFilter, page, pageSize int) (*dto.JobPositionListResponse, error) {
	repoFilter := repositories.PositionFilter{
		Status:        filter.Status,
		IsArchived:    filter.IsArchived,
		RequestedByID: filter.RequestedByID,
		Search:        filter.Search,
		Page:          page,
		PageSize:      pageSize,
	}
	// Менеджер видит только свои заявки
	if actor.IsManager() {
		repoFilter.RequestedByID = actor.UserID
	}

	positions, total, err := s.positionRepo.FindWithFilter(db, repoFilter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	resp := &dto.JobPositionListResponse{
		JobPositions: make([]dto.JobPositionResponse, 0, len(positions)),
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   dto.TotalPages(total, pageSize),
	}
	for i := range positions {
		resp.JobPositions = append(resp.JobPositions, dto.NewJobPositionResponse(&positions[i], now))
	}
	return resp, nil
}

func (s *jobPositionService) Get(ctx context.Context, db *gorm.DB, actor Actor, id string) (*dto.JobPositionResponse, error) {
	position, err := s.positionRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if err := checkPositionAccess(actor, position); err != nil {
		return nil, err
	}
	resp := dto.NewJobPositionResponse(position, s.now())
	return &resp, nil
}

// Create - новая заявка всегда в DRAFT, автор - вызывающий
func (s *jobPositionService) Create(ctx context.Context, db *gorm.DB, actor Actor, req *dto.CreateJobPositionRequest) (*dto.JobPositionResponse, error) {
	if req.Status != "" && req.Status != string(models.PositionStatusDraft) {
		logger.CtxDebug(ctx, "Ignoring submitted status on create", "status", req.Status)
	}

	position := &models.JobPosition{
		Name:                  strings.TrimSpace(req.Name),
		Location:              strings.TrimSpace(req.Location),
		RegistrationStartDate: toUTC(req.RegistrationStartDate),
		RegistrationEndDate:   toUTC(req.RegistrationEndDate),
		SpecificRequirements:  req.SpecificRequirements,
		AvailableSlots:        req.AvailableSlots,
		Announcement:          req.Announcement,
		Status:                models.PositionStatusDraft,
		RequestedByID:         actor.idPtr(),
	}
	if err := checkRegistrationWindow(position); err != nil {
		return nil, err
	}

	if err := s.positionRepo.Create(db, position); err != nil {
		return nil, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "Job position requested", "position_id", position.ID, "name", position.Name)
	return s.reload(db, position.ID)
}

func (s *jobPositionService) Update(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.UpdateJobPositionRequest) (*dto.JobPositionResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	position, err := s.positionRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if err := checkPositionAccess(actor, position); err != nil {
		return nil, err
	}

	// 1. Правка полей
	fieldsChanged := false
	if req.HasFieldEdits() {
		if position.Status == models.PositionStatusClosed || position.Status == models.PositionStatusRejected {
			return nil, apperrors.ErrPositionLocked
		}
		if actor.IsManager() && position.Status != models.PositionStatusDraft {
			return nil, apperrors.ErrInsufficientPermissions.WithMessage("Managers can only edit their own draft requests")
		}
		applyPositionEdits(position, req)
		if err := checkRegistrationWindow(position); err != nil {
			return nil, err
		}
		fieldsChanged = true
	}

	// 2. Архивация
	if req.IsArchived != nil && *req.IsArchived != position.IsArchived {
		if actor.IsManager() {
			return nil, apperrors.ErrInsufficientPermissions
		}
		position.IsArchived = *req.IsArchived
		fieldsChanged = true
	}

	if fieldsChanged {
		if err := s.positionRepo.Update(tx, position); err != nil {
			return nil, mapRepoError(err)
		}
	}

	// 3. Смена статуса по таблице переходов
	var changed *events.PositionStatusChanged
	if req.Status != nil && *req.Status != position.Status {
		from, to := position.Status, *req.Status
		if err := workflow.CheckPosition(from, to, actor.Role); err != nil {
			return nil, err
		}

		fields := map[string]interface{}{}
		switch to {
		case models.PositionStatusOpen:
			if err := checkReadyToOpen(position); err != nil {
				return nil, err
			}
		case models.PositionStatusRejected:
			if req.RejectionReason != nil {
				fields["rejection_reason"] = strings.TrimSpace(*req.RejectionReason)
			}
		}

		if err := s.positionRepo.UpdateStatus(tx, id, from, to, fields); err != nil {
			return nil, mapRepoError(err)
		}
		changed = &events.PositionStatusChanged{
			PositionID: id,
			From:       from,
			To:         to,
			ActorRole:  actor.Role,
			At:         s.now(),
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	if changed != nil {
		logger.TransitionLog("job_position", id, string(changed.From), string(changed.To), string(actor.Role))
		publish(s.bus, events.PositionStatusChangedTopic, *changed)
	}

	return s.reload(db, id)
}

func (s *jobPositionService) ListPublic(ctx context.Context, db *gorm.DB) ([]dto.PublicJobPositionResponse, error) {
	positions, err := s.positionRepo.FindPublic(db, s.now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := make([]dto.PublicJobPositionResponse, 0, len(positions))
	for i := range positions {
		resp = append(resp, dto.NewPublicJobPositionResponse(&positions[i]))
	}
	return resp, nil
}

// GetPublic - карточка позиции для формы отклика; закрытые выглядят как отсутствующие
func (s *jobPositionService) GetPublic(ctx context.Context, db *gorm.DB, id string) (*dto.PublicJobPositionResponse, error) {
	position, err := s.positionRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !position.AcceptsApplications(s.now()) {
		return nil, apperrors.ErrNotFound(repositories.ErrPositionNotFound).WithMessage("Job position not found")
	}
	resp := dto.NewPublicJobPositionResponse(position)
	return &resp, nil
}

func (s *jobPositionService) CloseExpired(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	expired, err := s.positionRepo.FindExpiredOpen(db, now.UTC())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	closed := 0
	for _, p := range expired {
		err := s.positionRepo.UpdateStatus(db, p.ID, models.PositionStatusOpen, models.PositionStatusClosed, nil)
		if err != nil {
			// позицию закрыли вручную между выборкой и апдейтом
			if apperrors.Is(err, repositories.ErrStatusChanged) {
				continue
			}
			return closed, apperrors.InternalError(err)
		}
		closed++
		logger.TransitionLog("job_position", p.ID, string(models.PositionStatusOpen), string(models.PositionStatusClosed), string(models.RoleSystem))
		publish(s.bus, events.PositionStatusChangedTopic, events.PositionStatusChanged{
			PositionID: p.ID,
			From:       models.PositionStatusOpen,
			To:         models.PositionStatusClosed,
			ActorRole:  models.RoleSystem,
			At:         now,
		})
	}
	return closed, nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

func (s *jobPositionService) reload(db *gorm.DB, id string) (*dto.JobPositionResponse, error) {
	position, err := s.positionRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := dto.NewJobPositionResponse(position, s.now())
	return &resp, nil
}

func checkPositionAccess(actor Actor, position *models.JobPosition) error {
	if !actor.IsManager() {
		return nil
	}
	if position.RequestedByID == nil || *position.RequestedByID != actor.UserID {
		return apperrors.ErrInsufficientPermissions
	}
	return nil
}

func applyPositionEdits(position *models.JobPosition, req *dto.UpdateJobPositionRequest) {
	if req.Name != nil {
		position.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		position.Location = strings.TrimSpace(*req.Location)
	}
	if req.RegistrationStartDate != nil {
		position.RegistrationStartDate = toUTC(req.RegistrationStartDate)
	}
	if req.RegistrationEndDate != nil {
		position.RegistrationEndDate = toUTC(req.RegistrationEndDate)
	}
	if req.SpecificRequirements != nil {
		position.SpecificRequirements = *req.SpecificRequirements
	}
	if req.AvailableSlots != nil {
		position.AvailableSlots = *req.AvailableSlots
	}
	if req.Announcement != nil {
		position.Announcement = *req.Announcement
	}
}

func checkRegistrationWindow(position *models.JobPosition) error {
	start, end := position.RegistrationStartDate, position.RegistrationEndDate
	if start != nil && end != nil && start.After(*end) {
		return apperrors.ValidationError(map[string]string{
			"registration_end_date": "Must be on or after registration_start_date",
		})
	}
	return nil
}

// checkReadyToOpen - публиковать можно только позицию с местами и корректным окном
func checkReadyToOpen(position *models.JobPosition) error {
	if err := checkRegistrationWindow(position); err != nil {
		return err
	}
	if position.AvailableSlots <= 0 {
		return apperrors.ErrInvalidOperation("job_position", "Position must have at least one available slot to open")
	}
	return nil
}

func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
