package services

import (
	"time"

	"hrflow_backend/internal/events"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/workflow"
	"hrflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// statusWriter - единственное место, где меняется статус заявки:
// таблица переходов, условный UPDATE, строка истории, событие после коммита
type statusWriter struct {
	appRepo     repositories.ApplicationRepository
	historyRepo repositories.HistoryRepository
	bus         events.Bus
	now         func() time.Time
}

func newStatusWriter(appRepo repositories.ApplicationRepository, historyRepo repositories.HistoryRepository, bus events.Bus) *statusWriter {
	return &statusWriter{
		appRepo:     appRepo,
		historyRepo: historyRepo,
		bus:         bus,
		now:         utcNow,
	}
}

// transition выполняется внутри tx; событие возвращается для публикации после коммита
func (w *statusWriter) transition(
	tx *gorm.DB,
	actor Actor,
	app *models.CvApplication,
	to models.ApplicationStatus,
	notes models.InterviewNotes,
	fields map[string]interface{},
	comment string,
) (*events.ApplicationStatusChanged, error) {
	from := app.Status
	if err := workflow.CheckApplication(from, to, actor.Role); err != nil {
		return nil, err
	}

	if err := w.appRepo.UpdateStatus(tx, app.ID, from, to, notes, fields); err != nil {
		return nil, mapRepoError(err)
	}
	if err := w.historyRepo.Create(tx, &models.ApplicationStatusHistory{
		ApplicationID: app.ID,
		FromStatus:    from,
		ToStatus:      to,
		ActorID:       actor.idPtr(),
		ActorRole:     actor.Role,
		Comment:       comment,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	positionID := ""
	if app.AppliedPositionID != nil {
		positionID = *app.AppliedPositionID
	}
	return &events.ApplicationStatusChanged{
		ApplicationID: app.ID,
		PositionID:    positionID,
		From:          from,
		To:            to,
		ActorRole:     actor.Role,
		At:            w.now(),
	}, nil
}

func (w *statusWriter) afterTransition(changed *events.ApplicationStatusChanged) {
	if changed == nil {
		return
	}
	logger.TransitionLog("cv_application", changed.ApplicationID, string(changed.From), string(changed.To), string(changed.ActorRole))
	publish(w.bus, events.ApplicationStatusChangedTopic, *changed)
}
