package services

import (
	"context"
	"strings"

	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ScheduleService - календарь HR. Ручные записи (праздники, блокировки) правятся здесь,
// интервью и онбординг - только через заявку.
type ScheduleService interface {
	List(ctx context.Context, db *gorm.DB, filter dto.ScheduleFilter) ([]dto.ScheduleResponse, error)
	Create(ctx context.Context, db *gorm.DB, actor Actor, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	Update(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, db *gorm.DB, actor Actor, id string) error
}

type scheduleService struct {
	scheduleRepo repositories.ScheduleRepository
}

func NewScheduleService(scheduleRepo repositories.ScheduleRepository) ScheduleService {
	return &scheduleService{scheduleRepo: scheduleRepo}
}

func (s *scheduleService) List(ctx context.Context, db *gorm.DB, filter dto.ScheduleFilter) ([]dto.ScheduleResponse, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, apperrors.ErrInvalidTimeRange
	}
	schedules, err := s.scheduleRepo.FindInRange(db, filter.From, filter.To, filter.Kind)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		resp = append(resp, dto.NewScheduleResponse(&schedules[i]))
	}
	return resp, nil
}

func (s *scheduleService) Create(ctx context.Context, db *gorm.DB, actor Actor, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule := &models.Schedule{
		Title:       strings.TrimSpace(req.Title),
		StartDate:   req.StartDate.UTC(),
		EndDate:     req.EndDate.UTC(),
		Description: req.Description,
		Kind:        models.ScheduleKindManual,
		CreatedByID: actor.idPtr(),
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.checkSlot(tx, schedule, ""); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Create(tx, schedule); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Schedule entry created", "schedule_id", schedule.ID, "title", schedule.Title)
	resp := dto.NewScheduleResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) Update(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	schedule, err := s.scheduleRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if schedule.Kind != models.ScheduleKindManual {
		return nil, apperrors.ErrScheduleManagedByApplication
	}

	if req.Title != nil {
		schedule.Title = strings.TrimSpace(*req.Title)
	}
	if req.StartDate != nil {
		schedule.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		schedule.EndDate = req.EndDate.UTC()
	}
	if req.Description != nil {
		schedule.Description = *req.Description
	}

	if err := s.checkSlot(tx, schedule, schedule.ID); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Update(tx, schedule); err != nil {
		return nil, mapRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewScheduleResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) Delete(ctx context.Context, db *gorm.DB, actor Actor, id string) error {
	schedule, err := s.scheduleRepo.FindByID(db, id)
	if err != nil {
		return mapRepoError(err)
	}
	if schedule.Kind != models.ScheduleKindManual {
		return apperrors.ErrScheduleManagedByApplication
	}
	if err := s.scheduleRepo.Delete(db, id); err != nil {
		return mapRepoError(err)
	}
	logger.CtxInfo(ctx, "Schedule entry deleted", "schedule_id", id)
	return nil
}

// checkSlot: start < end и никаких пересечений с другими записями
func (s *scheduleService) checkSlot(db *gorm.DB, schedule *models.Schedule, excludeID string) error {
	if !schedule.StartDate.Before(schedule.EndDate) {
		return apperrors.ErrInvalidTimeRange
	}
	overlapping, err := s.scheduleRepo.FindOverlapping(db, schedule.StartDate, schedule.EndDate, excludeID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if len(overlapping) > 0 {
		return apperrors.ErrScheduleConflict.WithDetails(conflictDetails(overlapping))
	}
	return nil
}
