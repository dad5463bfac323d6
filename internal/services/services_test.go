package services

import (
	"context"
	"testing"
	"time"

	"hrflow_backend/internal/auth"
	"hrflow_backend/internal/config"
	"hrflow_backend/internal/events"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/storage"
	"hrflow_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture - все сервисы поверх одной in-memory БД
type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	store    *storage.MemoryStorage
	notifier *testutil.RecordingNotifier
	engine   *testutil.FakeEngine
	scorer   *testutil.FakeScorer
	bus      events.Bus
	tokens   *auth.TokenManager

	appRepo      repositories.ApplicationRepository
	scheduleRepo repositories.ScheduleRepository

	auth         AuthService
	users        UserService
	positions    JobPositionService
	applications ApplicationService
	scoring      ScoringService
	schedules    ScheduleService
	dashboard    DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Defaults()
	f := &fixture{
		ctx:      context.Background(),
		db:       testutil.NewTestDB(t),
		store:    storage.NewMemoryStorage(),
		notifier: &testutil.RecordingNotifier{},
		engine:   &testutil.FakeEngine{Link: "https://cal.example.com/book/42"},
		scorer:   &testutil.FakeScorer{},
		bus:      events.NewBus(),
		tokens:   auth.NewTokenManager("test-secret", time.Hour),
	}

	userRepo := repositories.NewUserRepository()
	refreshRepo := repositories.NewRefreshTokenRepository()
	positionRepo := repositories.NewJobPositionRepository()
	historyRepo := repositories.NewHistoryRepository()
	f.appRepo = repositories.NewApplicationRepository()
	f.scheduleRepo = repositories.NewScheduleRepository()

	f.auth = NewAuthService(userRepo, refreshRepo, f.tokens, 24*time.Hour, f.store, cfg.AvatarPolicy())
	f.users = NewUserService(userRepo, refreshRepo, f.store)
	f.positions = NewJobPositionService(positionRepo, f.bus)
	f.applications = NewApplicationService(f.appRepo, positionRepo, f.scheduleRepo, historyRepo,
		f.store, cfg.CVPolicy(), f.notifier, f.engine, f.bus)
	f.schedules = NewScheduleService(f.scheduleRepo)
	f.dashboard = NewDashboardService(f.appRepo, positionRepo, f.scheduleRepo)
	require.NoError(t, f.dashboard.Subscribe(f.bus))

	scoring, err := NewScoringService(f.appRepo, historyRepo, f.store, f.scorer, f.bus)
	require.NoError(t, err)
	f.scoring = scoring

	return f
}

func actorOf(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

// status перечитывает статус заявки напрямую из БД
func (f *fixture) status(t *testing.T, id string) models.ApplicationStatus {
	t.Helper()
	app, err := f.appRepo.FindByID(f.db, id)
	require.NoError(t, err)
	return app.Status
}

// slotAt - часовой слот через days дней в hour:00 UTC
func slotAt(days, hour int) (time.Time, time.Time) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return start, start.Add(time.Hour)
}
