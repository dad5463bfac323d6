package workers

import (
	"context"

	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/services"

	"gorm.io/gorm"
)

const defaultScoringBatch = 10

// ScoringWorker - проход по SUBMITTED заявкам встроенным скорером. Ошибки по заявкам не прерывают батч.
type ScoringWorker struct {
	db        *gorm.DB
	scoring   services.ScoringService
	batchSize int
}

func NewScoringWorker(db *gorm.DB, scoring services.ScoringService, batchSize int) *ScoringWorker {
	if batchSize <= 0 {
		batchSize = defaultScoringBatch
	}
	return &ScoringWorker{db: db, scoring: scoring, batchSize: batchSize}
}

func (w *ScoringWorker) Name() string { return "ai_scoring" }

func (w *ScoringWorker) Run(ctx context.Context) error {
	if !w.scoring.Enabled() {
		return nil
	}

	result, err := w.scoring.ScoreBatch(ctx, w.db, w.batchSize)
	if err != nil {
		return err
	}
	if result.Picked > 0 {
		logger.WorkerLog(w.Name(), "score_batch", nil,
			"picked", result.Picked,
			"scored", result.Scored,
			"failed", result.Failed,
		)
	}
	return nil
}
