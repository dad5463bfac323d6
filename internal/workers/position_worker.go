package workers

import (
	"context"
	"time"

	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/services"

	"gorm.io/gorm"
)

// PositionWorker закрывает OPEN вакансии, у которых прошла дата окончания регистрации
type PositionWorker struct {
	db        *gorm.DB
	positions services.JobPositionService
	now       func() time.Time
}

func NewPositionWorker(db *gorm.DB, positions services.JobPositionService) *PositionWorker {
	return &PositionWorker{
		db:        db,
		positions: positions,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (w *PositionWorker) Name() string { return "position_closer" }

func (w *PositionWorker) Run(ctx context.Context) error {
	closed, err := w.positions.CloseExpired(ctx, w.db, w.now())
	if err != nil {
		return err
	}
	if closed > 0 {
		logger.WorkerLog(w.Name(), "close_expired", nil, "closed", closed)
	}
	return nil
}
