package workers

import (
	"context"
	"fmt"
	"time"

	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/metrics"

	"github.com/robfig/cron/v3"
)

// Job - один проход фоновой задачи
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler запускает задачи по cron-расписанию (UTC). Пересечения запусков одной задачи пропускаются.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewScheduler(timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add регистрирует задачу; пустое расписание - задача выключена
func (s *Scheduler) Add(spec string, job Job) error {
	if spec == "" {
		logger.Info("Worker disabled", "worker", job.Name())
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.runJob(job) }); err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, job.Name(), err)
	}
	logger.Info("Worker scheduled", "worker", job.Name(), "schedule", spec)
	return nil
}

func (s *Scheduler) runJob(job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
	}

	if err := job.Run(ctx); err != nil {
		metrics.WorkerErrors.WithLabelValues(job.Name()).Inc()
		logger.WorkerLog(job.Name(), "run", err)
	}
}

// Start запускает cron и останавливает его вместе с ctx
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop ждет завершения уже запущенных задач
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	logger.Info("Workers stopped")
}

// Entries - число зарегистрированных задач
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
