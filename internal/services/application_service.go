package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"hrflow_backend/internal/clients/workflowengine"
	"hrflow_backend/internal/config"
	"hrflow_backend/internal/email"
	"hrflow_backend/internal/events"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/metrics"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/internal/storage"
	"hrflow_backend/internal/workflow"
	"hrflow_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// confirmationTimeout ограничивает фоновую отправку подтверждения
const confirmationTimeout = 30 * time.Second

// ApplicationService - прием анкет и конвейер найма
type ApplicationService interface {
	// Публичный прием анкеты с файлом CV
	Submit(ctx context.Context, db *gorm.DB, req *dto.PublicApplicationRequest, file *multipart.FileHeader) (*dto.SubmitApplicationResponse, error)

	List(ctx context.Context, db *gorm.DB, actor Actor, filter dto.ApplicationFilter, page, pageSize int) (*dto.ApplicationListResponse, error)
	Get(ctx context.Context, db *gorm.DB, actor Actor, id string) (*dto.ApplicationResponse, error)
	GetCV(ctx context.Context, db *gorm.DB, actor Actor, id string) (*CVFile, error)
	History(ctx context.Context, db *gorm.DB, actor Actor, id string) ([]dto.HistoryEntryResponse, error)

	UpdateStatus(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.UpdateStatusRequest) (*dto.ApplicationResponse, error)
	ScheduleInterview(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.ScheduleInterviewRequest) (*dto.ScheduleInterviewResponse, error)
	ManagerFeedback(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.ManagerFeedbackRequest) (*dto.ApplicationResponse, error)
	FinalDecision(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.FinalDecisionRequest) (*dto.ApplicationResponse, error)
	TriggerSchedule(ctx context.Context, db *gorm.DB, actor Actor, id string) (*dto.TriggerScheduleResponse, error)
	Archive(ctx context.Context, db *gorm.DB, actor Actor, id string, archived bool) (*dto.ApplicationResponse, error)
}

// WorkflowEngine - внешний сценарий планирования (webhook)
type WorkflowEngine interface {
	Enabled() bool
	Trigger(ctx context.Context, req workflowengine.TriggerRequest) (*workflowengine.TriggerResponse, error)
}

// CVFile - поток файла резюме; Body закрывает вызывающий
type CVFile struct {
	FileName    string
	ContentType string
	Body        io.ReadCloser
}

type applicationService struct {
	*statusWriter
	positionRepo repositories.JobPositionRepository
	scheduleRepo repositories.ScheduleRepository
	storage      storage.Storage
	uploader     *uploader
	cvPolicy     config.UploadPolicy
	notifier     email.Notifier
	engine       WorkflowEngine
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	positionRepo repositories.JobPositionRepository,
	scheduleRepo repositories.ScheduleRepository,
	historyRepo repositories.HistoryRepository,
	store storage.Storage,
	cvPolicy config.UploadPolicy,
	notifier email.Notifier,
	engine WorkflowEngine,
	bus events.Bus,
) ApplicationService {
	return &applicationService{
		statusWriter: newStatusWriter(appRepo, historyRepo, bus),
		positionRepo: positionRepo,
		scheduleRepo: scheduleRepo,
		storage:      store,
		uploader:     newUploader(store),
		cvPolicy:     cvPolicy,
		notifier:     notifier,
		engine:       engine,
	}
}

// =======================
// Прием анкеты
// =======================

func (s *applicationService) Submit(ctx context.Context, db *gorm.DB, req *dto.PublicApplicationRequest, file *multipart.FileHeader) (*dto.SubmitApplicationResponse, error) {
	if !req.AgreeTerms {
		return nil, apperrors.ValidationError(map[string]string{"agree_terms": "Must be accepted"})
	}

	position, err := s.positionRepo.FindByID(db, req.AppliedPositionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	now := s.now()
	if !position.AcceptsApplications(now) {
		return nil, apperrors.ErrPositionNotOpen
	}

	// 1. Файл - до транзакции, при ошибке БД удаляем
	stored, err := s.uploader.Store(ctx, file, s.cvPolicy, position.ID)
	if err != nil {
		return nil, err
	}

	// 2. Запись заявки и первой строки истории
	app := &models.CvApplication{
		FullName:          strings.TrimSpace(req.FullName),
		Email:             req.Email,
		CvFileName:        stored.OriginalName,
		CvFileObjectKey:   stored.Key,
		Qualification:     req.Qualification,
		AgreeTerms:        true,
		Status:            models.ApplicationStatusSubmitted,
		InterviewNotes:    datatypes.NewJSONType(models.InterviewNotes{}),
		AppliedPositionID: &position.ID,
	}
	if err := s.createApplication(db, app); err != nil {
		s.uploader.Discard(ctx, stored.Key)
		return nil, err
	}

	logger.CtxInfo(ctx, "Application submitted", "application_id", app.ID, "position_id", position.ID)
	publish(s.bus, events.ApplicationSubmittedTopic, events.ApplicationSubmitted{
		ApplicationID: app.ID,
		PositionID:    position.ID,
		At:            now,
	})

	// 3. Подтверждение кандидату - в фоне, ответ не ждет почтовый сервер
	if s.notifier != nil {
		go s.sendConfirmation(context.WithoutCancel(ctx), email.ConfirmationData{
			ApplicationID: app.ID,
			CandidateName: app.FullName,
			CandidateMail: app.Email,
			PositionName:  position.Name,
		})
	}

	return &dto.SubmitApplicationResponse{
		ID:        app.ID,
		Status:    app.Status,
		CreatedAt: app.CreatedAt,
	}, nil
}

// sendConfirmation - ошибки только логируются
func (s *applicationService) sendConfirmation(ctx context.Context, data email.ConfirmationData) {
	ctx, cancel := context.WithTimeout(ctx, confirmationTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, "Confirmation email panicked", "application_id", data.ApplicationID, "panic", r)
		}
	}()
	s.notifier.SendApplicationConfirmation(ctx, data)
}

func (s *applicationService) createApplication(db *gorm.DB, app *models.CvApplication) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.appRepo.Create(tx, app); err != nil {
		return mapRepoError(err)
	}
	if err := s.historyRepo.Create(tx, &models.ApplicationStatusHistory{
		ApplicationID: app.ID,
		ToStatus:      models.ApplicationStatusSubmitted,
		ActorRole:     models.RoleSystem,
		Comment:       "Submitted via public form",
	}); err != nil {
		return apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// =======================
// Чтение
// =======================

func (s *applicationService) List(ctx context.Context, db *gorm.DB, actor Actor, filter dto.ApplicationFilter, page, pageSize int) (*dto.ApplicationListResponse, error) {
	repoFilter := repositories.ApplicationFilter{
		Status:     filter.Status,
		PositionID: filter.PositionID,
		IsArchived: filter.IsArchived,
		Search:     filter.Search,
		Page:       page,
		PageSize:   pageSize,
	}
	if actor.IsManager() {
		repoFilter.ManagerID = actor.UserID
	}

	apps, total, err := s.appRepo.FindWithFilter(db, repoFilter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.ApplicationListResponse{
		Applications: make([]dto.ApplicationResponse, 0, len(apps)),
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   dto.TotalPages(total, pageSize),
	}
	for i := range apps {
		resp.Applications = append(resp.Applications, buildApplicationResponse(&apps[i], actor))
	}
	return resp, nil
}

func (s *applicationService) Get(ctx context.Context, db *gorm.DB, actor Actor, id string) (*dto.ApplicationResponse, error) {
	app, err := s.loadForActor(db, actor, id)
	if err != nil {
		return nil, err
	}
	resp := buildApplicationResponse(app, actor)
	return &resp, nil
}

func (s *applicationService) GetCV(ctx context.Context, db *gorm.DB, actor Actor, id string) (*CVFile, error) {
	app, err := s.loadForActor(db, actor, id)
	if err != nil {
		return nil, err
	}
	if app.CvFileObjectKey == "" {
		return nil, apperrors.ErrNotFound(storage.ErrObjectNotFound).WithMessage("CV file not found")
	}

	body, err := s.storage.Get(ctx, app.CvFileObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperrors.ErrNotFound(err).WithMessage("CV file not found")
		}
		return nil, apperrors.ExternalServiceError(err, "storage", "Failed to read CV file")
	}
	return &CVFile{
		FileName:    app.CvFileName,
		ContentType: getMimeTypeFromFilename(app.CvFileName),
		Body:        body,
	}, nil
}

func (s *applicationService) History(ctx context.Context, db *gorm.DB, actor Actor, id string) ([]dto.HistoryEntryResponse, error) {
	if _, err := s.loadForActor(db, actor, id); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.FindByApplication(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, dto.NewHistoryEntryResponse(&entries[i]))
	}
	return resp, nil
}

// =======================
// Смена статуса
// =======================

// UpdateStatus - заметки сливаются с сохраненными; тот же статус - только заметки
func (s *applicationService) UpdateStatus(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.UpdateStatusRequest) (*dto.ApplicationResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.loadForActor(tx, actor, id)
	if err != nil {
		return nil, err
	}

	stored := app.Notes()
	notes := stored
	if req.InterviewNotes != nil {
		patch, err := notesPatchFor(actor, app.Status, req.Status, *req.InterviewNotes)
		if err != nil {
			return nil, err
		}
		notes = notes.Merge(patch)
	}

	if req.Status == app.Status {
		if err := s.appRepo.UpdateNotes(tx, id, app.Status, notes); err != nil {
			return nil, mapRepoError(err)
		}
		if err := tx.Commit().Error; err != nil {
			return nil, apperrors.InternalError(err)
		}
		return s.reload(db, actor, id)
	}

	if err := workflow.CheckApplication(app.Status, req.Status, actor.Role); err != nil {
		return nil, err
	}

	var changed *events.ApplicationStatusChanged
	switch {
	case req.Status == models.ApplicationStatusInterviewScheduled:
		if notes.ScheduledTime == nil {
			return nil, apperrors.ErrScheduledTimeRequired
		}
		stage, _ := workflow.StageForScheduling(app.Status)
		start := notes.ScheduledTime.UTC()
		end := defaultSlotEnd(start, notes.ScheduledEndTime)
		_, changed, err = s.scheduleStage(ctx, tx, actor, app, stage, slot{start: start, end: end, notes: req.Comment}, notes)

	case req.Status == models.ApplicationStatusOnboarding && notes.OnboardingTime != nil:
		stage, _ := workflow.StageForScheduling(app.Status)
		start := notes.OnboardingTime.UTC()
		_, changed, err = s.scheduleStage(ctx, tx, actor, app, stage, slot{start: start, end: start.Add(time.Hour), notes: req.Comment}, notes)

	case req.Status == models.ApplicationStatusHired || req.Status == models.ApplicationStatusNotHired:
		// финальное интервью назначает только сервер
		if stored.FinalScheduledTime == nil {
			return nil, apperrors.ErrFinalInterviewNotScheduled
		}
		if notes.FinalDecision == "" {
			notes.FinalDecision = finalDecisionFor(req.Status)
		}
		if notes.DecisionDate == nil {
			now := s.now()
			notes.DecisionDate = &now
		}
		changed, err = s.transition(tx, actor, app, req.Status, notes, nil, req.Comment)

	default:
		changed, err = s.transition(tx, actor, app, req.Status, notes, nil, req.Comment)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.afterTransition(changed)
	return s.reload(db, actor, id)
}

// ScheduleInterview - слот из календаря; этап задается текущим статусом заявки
func (s *applicationService) ScheduleInterview(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.ScheduleInterviewRequest) (*dto.ScheduleInterviewResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.loadForActor(tx, actor, id)
	if err != nil {
		return nil, err
	}

	stage, ok := workflow.StageForScheduling(app.Status)
	if !ok {
		return nil, apperrors.ErrInvalidTransition.WithDetails(map[string]string{
			"entity": "cv_application",
			"from":   string(app.Status),
			"reason": "nothing to schedule in this status",
		})
	}
	if stage.Next != "" {
		if err := workflow.CheckApplication(app.Status, stage.Next, actor.Role); err != nil {
			return nil, err
		}
	} else if !actor.IsHR() {
		// финальное интервью назначает HR
		return nil, apperrors.ErrInsufficientPermissions
	}

	schedule, changed, err := s.scheduleStage(ctx, tx, actor, app, stage, slot{
		start:    req.Start.UTC(),
		end:      req.End.UTC(),
		title:    req.Title,
		location: req.Location,
		notes:    req.Notes,
	}, app.Notes())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.afterTransition(changed)

	resp, err := s.reload(db, actor, id)
	if err != nil {
		return nil, err
	}
	return &dto.ScheduleInterviewResponse{
		Application: *resp,
		Schedule:    dto.NewScheduleResponse(schedule),
	}, nil
}

// ManagerFeedback - решение менеджера после интервью, следующий статус считает сервер
func (s *applicationService) ManagerFeedback(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.ManagerFeedbackRequest) (*dto.ApplicationResponse, error) {
	next, err := workflow.NextAfterManagerDecision(req.Decision)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.loadForActor(tx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckApplication(app.Status, next, actor.Role); err != nil {
		return nil, err
	}

	notes := app.Notes()
	notes.ManagerDecision = req.Decision
	notes.ManagerFeedback = req.Feedback

	changed, err := s.transition(tx, actor, app, next, notes, nil, "Manager decision: "+req.Decision)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.afterTransition(changed)
	return s.reload(db, actor, id)
}

// FinalDecision - решение head_hr; требуется назначенное финальное интервью
func (s *applicationService) FinalDecision(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.FinalDecisionRequest) (*dto.ApplicationResponse, error) {
	next, err := workflow.NextAfterFinalDecision(req.Decision)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.loadForActor(tx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckApplication(app.Status, next, actor.Role); err != nil {
		return nil, err
	}

	notes := app.Notes()
	if notes.FinalScheduledTime == nil {
		return nil, apperrors.ErrFinalInterviewNotScheduled
	}
	now := s.now()
	notes.FinalDecision = req.Decision
	notes.FinalFeedback = req.Feedback
	notes.DecisionDate = &now

	changed, err := s.transition(tx, actor, app, next, notes, nil, "Final decision: "+req.Decision)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.afterTransition(changed)
	return s.reload(db, actor, id)
}

// TriggerSchedule - вызывает внешний движок планирования и сохраняет ссылку на бронирование.
// Нанятый кандидат переходит в ONBOARDING, если роль вызывающего это допускает.
func (s *applicationService) TriggerSchedule(ctx context.Context, db *gorm.DB, actor Actor, id string) (*dto.TriggerScheduleResponse, error) {
	if s.engine == nil || !s.engine.Enabled() {
		return nil, apperrors.ErrWorkflowEngineDisabled
	}

	app, err := s.loadForActor(db, actor, id)
	if err != nil {
		return nil, err
	}

	positionName := ""
	if app.AppliedPosition != nil {
		positionName = app.AppliedPosition.Name
	}

	started := time.Now()
	result, err := s.engine.Trigger(ctx, workflowengine.TriggerRequest{
		ApplicationID: app.ID,
		FullName:      app.FullName,
		Email:         app.Email,
		Status:        string(app.Status),
		Position:      positionName,
	})
	logger.ExternalCallLog("workflow_engine", "trigger", time.Since(started), err)
	if err != nil {
		return nil, apperrors.ErrWorkflowEngineFailed.WithError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	// статус мог измениться, пока ждали движок
	app, err = s.appRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	now := s.now()
	notes := app.Notes()
	notes.ScheduleTriggeredAt = &now
	if result.ScheduleLink != "" {
		notes.ScheduleLink = result.ScheduleLink
	}

	var changed *events.ApplicationStatusChanged
	if app.Status == models.ApplicationStatusHired &&
		workflow.CanTransitionApplication(app.Status, models.ApplicationStatusOnboarding, actor.Role) {
		changed, err = s.transition(tx, actor, app, models.ApplicationStatusOnboarding, notes, nil, "Onboarding scheduled via workflow engine")
	} else {
		err = s.appRepo.UpdateNotes(tx, id, app.Status, notes)
	}
	if err != nil {
		return nil, mapRepoError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.afterTransition(changed)

	resp, err := s.reload(db, actor, id)
	if err != nil {
		return nil, err
	}
	return &dto.TriggerScheduleResponse{Application: *resp, ScheduleLink: notes.ScheduleLink}, nil
}

func (s *applicationService) Archive(ctx context.Context, db *gorm.DB, actor Actor, id string, archived bool) (*dto.ApplicationResponse, error) {
	if _, err := s.loadForActor(db, actor, id); err != nil {
		return nil, err
	}
	if err := s.appRepo.SetArchived(db, id, archived); err != nil {
		return nil, mapRepoError(err)
	}
	logger.CtxInfo(ctx, "Application archive flag changed", "application_id", id, "archived", archived)
	return s.reload(db, actor, id)
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

// slot - интервал и текст для записи календаря и приглашения
type slot struct {
	start    time.Time
	end      time.Time
	title    string
	location string
	notes    string
}

// scheduleStage: проверка пересечений -> запись календаря -> заметки/переход -> приглашение.
// Ошибка отправки приглашения откатывает всю транзакцию.
func (s *applicationService) scheduleStage(
	ctx context.Context,
	tx *gorm.DB,
	actor Actor,
	app *models.CvApplication,
	stage workflow.ScheduleStage,
	sl slot,
	notes models.InterviewNotes,
) (*models.Schedule, *events.ApplicationStatusChanged, error) {
	if !sl.start.Before(sl.end) {
		return nil, nil, apperrors.ErrInvalidTimeRange
	}

	overlapping, err := s.scheduleRepo.FindOverlapping(tx, sl.start, sl.end, "")
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	if len(overlapping) > 0 {
		return nil, nil, apperrors.ErrScheduleConflict.WithDetails(conflictDetails(overlapping))
	}

	positionName := ""
	if app.AppliedPosition != nil {
		positionName = app.AppliedPosition.Name
	}
	title := strings.TrimSpace(sl.title)
	if title == "" {
		title = fmt.Sprintf("%s: %s", stageTitle(stage.Kind), app.FullName)
	}

	schedule := &models.Schedule{
		Title:         title,
		StartDate:     sl.start,
		EndDate:       sl.end,
		Description:   sl.notes,
		Kind:          stage.Kind,
		ApplicationID: &app.ID,
		CreatedByID:   actor.idPtr(),
	}
	if err := s.scheduleRepo.Create(tx, schedule); err != nil {
		return nil, nil, apperrors.InternalError(err)
	}

	start, end := sl.start, sl.end
	switch stage.Kind {
	case models.ScheduleKindManagerInterview:
		notes.ScheduledTime = &start
		notes.ScheduledEndTime = &end
	case models.ScheduleKindFinalInterview:
		notes.FinalScheduledTime = &start
	case models.ScheduleKindOnboarding:
		notes.OnboardingTime = &start
	}

	var changed *events.ApplicationStatusChanged
	if stage.Next != "" {
		changed, err = s.transition(tx, actor, app, stage.Next, notes, nil, title)
	} else {
		err = mapRepoError(s.appRepo.UpdateNotes(tx, app.ID, app.Status, notes))
	}
	if err != nil {
		return nil, nil, err
	}

	// Приглашение отправляем последним: при ошибке ничего не фиксируется
	if s.notifier != nil {
		err = s.notifier.SendInterviewInvite(ctx, email.InviteData{
			ApplicationID: app.ID,
			CandidateName: app.FullName,
			CandidateMail: app.Email,
			PositionName:  positionName,
			Subject:       stage.InviteSubject,
			Stage:         string(stage.Kind),
			Start:         start,
			End:           end,
			Location:      sl.location,
			Notes:         sl.notes,
		})
		if err != nil {
			metrics.EmailsSent.WithLabelValues("interview_invite", "failed").Inc()
			logger.CtxWithError(ctx, "Interview invite failed, rolling back", err, "application_id", app.ID)
			return nil, nil, apperrors.ErrInviteDeliveryFailed.WithError(err)
		}
		metrics.EmailsSent.WithLabelValues("interview_invite", "sent").Inc()
	}

	return schedule, changed, nil
}

// loadForActor - менеджер видит только заявки на свои вакансии
func (s *applicationService) loadForActor(db *gorm.DB, actor Actor, id string) (*models.CvApplication, error) {
	app, err := s.appRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if actor.IsManager() {
		pos := app.AppliedPosition
		if pos == nil || pos.RequestedByID == nil || *pos.RequestedByID != actor.UserID {
			return nil, apperrors.ErrInsufficientPermissions
		}
	}
	return app, nil
}

func (s *applicationService) reload(db *gorm.DB, actor Actor, id string) (*dto.ApplicationResponse, error) {
	app, err := s.appRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := buildApplicationResponse(app, actor)
	return &resp, nil
}

func buildApplicationResponse(app *models.CvApplication, actor Actor) dto.ApplicationResponse {
	return dto.NewApplicationResponse(app, workflow.AllowedNext(app.Status, actor.Role))
}

func defaultSlotEnd(start time.Time, end *time.Time) time.Time {
	if end != nil && end.After(start) {
		return end.UTC()
	}
	return start.Add(time.Hour)
}

// notesPatchFor - что вызывающий может записать в заметки через UpdateStatus.
// Служебные поля заполняет сервер, решения пишут только их владельцы.
func notesPatchFor(actor Actor, from, to models.ApplicationStatus, patch models.InterviewNotes) (models.InterviewNotes, error) {
	patch.FinalScheduledTime = nil
	patch.DecisionDate = nil
	patch.ScheduleLink = ""
	patch.ScheduleTriggeredAt = nil

	// время слота - только вход для назначения встречи этим же запросом
	if from == to || to != models.ApplicationStatusInterviewScheduled {
		patch.ScheduledTime = nil
		patch.ScheduledEndTime = nil
	}
	if from == to || to != models.ApplicationStatusOnboarding {
		patch.OnboardingTime = nil
	}

	if patch.ManagerDecision != "" || patch.ManagerFeedback != "" {
		if !actor.IsManager() {
			return patch, apperrors.ErrInsufficientPermissions.WithMessage("Only the interviewing manager records the manager decision")
		}
		if from != models.ApplicationStatusInterviewScheduled {
			return patch, apperrors.ValidationError(map[string]string{"interview_notes": "Manager decision is only recorded after the interview"})
		}
		if patch.ManagerDecision != "" {
			next, err := workflow.NextAfterManagerDecision(patch.ManagerDecision)
			if err != nil {
				return patch, err
			}
			if next != to {
				return patch, apperrors.ValidationError(map[string]string{"interview_notes.manager_decision": "Does not match the requested status"})
			}
		}
	}

	if patch.FinalDecision != "" || patch.FinalFeedback != "" {
		if actor.Role != models.UserRoleHeadHR {
			return patch, apperrors.ErrInsufficientPermissions.WithMessage("Only head_hr records the final decision")
		}
		if from != models.ApplicationStatusPendingFinalDecision {
			return patch, apperrors.ValidationError(map[string]string{"interview_notes": "Final decision is only recorded after the final interview"})
		}
		if patch.FinalDecision != "" {
			next, err := workflow.NextAfterFinalDecision(patch.FinalDecision)
			if err != nil {
				return patch, err
			}
			if next != to {
				return patch, apperrors.ValidationError(map[string]string{"interview_notes.final_decision": "Does not match the requested status"})
			}
		}
	}

	if (patch.Preference != "" || len(patch.Extra) > 0) && !actor.IsHR() {
		return patch, apperrors.ErrInsufficientPermissions.WithMessage("Only HR edits interview preferences")
	}
	return patch, nil
}

func finalDecisionFor(status models.ApplicationStatus) string {
	if status == models.ApplicationStatusHired {
		return workflow.FinalDecisionHired
	}
	return workflow.FinalDecisionNotHired
}

func stageTitle(kind models.ScheduleKind) string {
	switch kind {
	case models.ScheduleKindManagerInterview:
		return "Interview"
	case models.ScheduleKindFinalInterview:
		return "Final interview"
	case models.ScheduleKindOnboarding:
		return "Onboarding"
	default:
		return "Event"
	}
}

func conflictDetails(overlapping []models.Schedule) []map[string]interface{} {
	details := make([]map[string]interface{}, 0, len(overlapping))
	for _, o := range overlapping {
		details = append(details, map[string]interface{}{
			"id":         o.ID,
			"title":      o.Title,
			"start_date": o.StartDate,
			"end_date":   o.EndDate,
		})
	}
	return details
}
