package workers

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/services"
	"hrflow_backend/internal/storage"
	"hrflow_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockScorer struct {
	mock.Mock
}

func (m *mockScorer) ScoreDocument(ctx context.Context, prompt string, document []byte, mimeType string) (string, error) {
	args := m.Called(ctx, prompt, document, mimeType)
	return args.String(0), args.Error(1)
}

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestSchedulerAdd(t *testing.T) {
	s := NewScheduler(time.Minute)
	defer s.Stop()

	require.NoError(t, s.Add("", &countingJob{}))
	assert.Equal(t, 0, s.Entries())

	require.NoError(t, s.Add("@every 1h", &countingJob{}))
	assert.Equal(t, 1, s.Entries())

	assert.Error(t, s.Add("not a cron", &countingJob{}))
}

func TestSchedulerRunJobSurvivesErrors(t *testing.T) {
	s := NewScheduler(time.Second)
	defer s.Stop()

	job := &countingJob{err: errors.New("boom")}
	s.runJob(job)
	s.runJob(job)
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestPositionWorkerClosesExpired(t *testing.T) {
	// 1. Подготовка
	db := testutil.NewTestDB(t)
	positions := services.NewJobPositionService(repositories.NewJobPositionRepository(), nil)

	expired := testutil.CreatePosition(t, db, "Expired", models.PositionStatusOpen, nil)
	require.NoError(t, db.Model(expired).Update("registration_end_date", time.Now().UTC().Add(-time.Hour)).Error)
	open := testutil.CreatePosition(t, db, "Still open", models.PositionStatusOpen, nil)

	worker := NewPositionWorker(db, positions)

	// 2. Действие
	require.NoError(t, worker.Run(context.Background()))

	// 3. Проверка
	var closed models.JobPosition
	require.NoError(t, db.First(&closed, "id = ?", expired.ID).Error)
	assert.Equal(t, models.PositionStatusClosed, closed.Status)

	var stillOpen models.JobPosition
	require.NoError(t, db.First(&stillOpen, "id = ?", open.ID).Error)
	assert.Equal(t, models.PositionStatusOpen, stillOpen.Status)
}

func TestScoringWorker(t *testing.T) {
	// 1. Подготовка
	db := testutil.NewTestDB(t)
	store := storage.NewMemoryStorage()
	scorer := &testutil.FakeScorer{Answer: `{"score": 64, "justification": "fits", "passed_hard_gate": true}`}

	scoring, err := services.NewScoringService(
		repositories.NewApplicationRepository(),
		repositories.NewHistoryRepository(),
		store, scorer, nil,
	)
	require.NoError(t, err)

	app := testutil.CreateApplication(t, db, nil, models.ApplicationStatusSubmitted)
	require.NoError(t, store.Save(context.Background(), app.CvFileObjectKey, bytes.NewReader([]byte("%PDF")), "application/pdf"))

	// 2. Действие
	require.NoError(t, NewScoringWorker(db, scoring, 0).Run(context.Background()))

	// 3. Проверка
	var got models.CvApplication
	require.NoError(t, db.First(&got, "id = ?", app.ID).Error)
	assert.Equal(t, models.ApplicationStatusReviewed, got.Status)
	require.NotNil(t, got.Score)
	assert.InDelta(t, 64.0, *got.Score, 0.001)
}

func TestScoringWorkerDisabledWithoutScorer(t *testing.T) {
	db := testutil.NewTestDB(t)
	scoring, err := services.NewScoringService(
		repositories.NewApplicationRepository(),
		repositories.NewHistoryRepository(),
		storage.NewMemoryStorage(), nil, nil,
	)
	require.NoError(t, err)

	app := testutil.CreateApplication(t, db, nil, models.ApplicationStatusSubmitted)
	require.NoError(t, NewScoringWorker(db, scoring, 5).Run(context.Background()))

	var got models.CvApplication
	require.NoError(t, db.First(&got, "id = ?", app.ID).Error)
	assert.Equal(t, models.ApplicationStatusSubmitted, got.Status)
}

func TestScoringWorkerSendsPDFToScorer(t *testing.T) {
	// 1. Подготовка
	db := testutil.NewTestDB(t)
	store := storage.NewMemoryStorage()
	scorer := &mockScorer{}
	scorer.On("ScoreDocument", mock.Anything, mock.AnythingOfType("string"), []byte("%PDF-1.4"), "application/pdf").
		Return(`{"score": 30, "justification": "junior", "passed_hard_gate": false}`, nil).
		Once()

	scoring, err := services.NewScoringService(
		repositories.NewApplicationRepository(),
		repositories.NewHistoryRepository(),
		store, scorer, nil,
	)
	require.NoError(t, err)

	app := testutil.CreateApplication(t, db, nil, models.ApplicationStatusSubmitted)
	require.NoError(t, store.Save(context.Background(), app.CvFileObjectKey, bytes.NewReader([]byte("%PDF-1.4")), "application/pdf"))

	// 2. Действие
	require.NoError(t, NewScoringWorker(db, scoring, 5).Run(context.Background()))

	// 3. Проверка
	scorer.AssertExpectations(t)
	var got models.CvApplication
	require.NoError(t, db.First(&got, "id = ?", app.ID).Error)
	require.NotNil(t, got.PassedHardGate)
	assert.False(t, *got.PassedHardGate)
}
