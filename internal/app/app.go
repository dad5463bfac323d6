package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "hrflow_backend/docs"

	"hrflow_backend/database"
	"hrflow_backend/internal/auth"
	"hrflow_backend/internal/clients/gemini"
	"hrflow_backend/internal/clients/workflowengine"
	"hrflow_backend/internal/config"
	"hrflow_backend/internal/email"
	"hrflow_backend/internal/events"
	"hrflow_backend/internal/handlers"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/metrics"
	"hrflow_backend/internal/middleware"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/routes"
	"hrflow_backend/internal/services"
	"hrflow_backend/internal/storage"
	"hrflow_backend/internal/validator"
	"hrflow_backend/internal/workers"
	"hrflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version проставляется при сборке через -ldflags
var Version = "dev"

// Deps - внешние зависимости, которые тесты подменяют фейками
type Deps struct {
	Storage  storage.Storage
	Notifier email.Notifier
	Scorer   services.CVScorer
	Engine   services.WorkflowEngine
}

// App - собранное приложение
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Bus       events.Bus
	Tokens    *auth.TokenManager
	Services  *services.ServiceContainer
	Handlers  *handlers.AppHandlers
	Router    *gin.Engine
	Scheduler *workers.Scheduler
}

// Run - команда serve: БД, миграции, сидирование, воркеры, HTTP с graceful shutdown
func Run(ctx context.Context, cfg *config.Config) error {
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	deps, closeDeps, err := NewDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDeps()

	application, err := Build(cfg, db, deps)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.SeedFirstHeadHR(ctx); err != nil {
		// без head_hr в систему не войти - не стартуем
		return fmt.Errorf("seed first head_hr: %w", err)
	}

	if err := application.StartWorkers(ctx); err != nil {
		return err
	}

	return application.Serve(ctx)
}

// Migrate - команда migrate: только схема БД
func Migrate(cfg *config.Config) error {
	logger.Init(cfg.Server.Env)
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("Migrations applied")
	return nil
}

// Seed - команда seed: миграции и первый head_hr без запуска сервера
func Seed(ctx context.Context, cfg *config.Config) error {
	logger.Init(cfg.Server.Env)
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return fmt.Errorf("migrate: %w", err)
	}

	deps, closeDeps, err := NewDeps(ctx, cfg)
	if err != nil {
		database.Close(db)
		return err
	}
	defer closeDeps()

	application, err := Build(cfg, db, deps)
	if err != nil {
		database.Close(db)
		return err
	}
	defer application.Close()

	return application.SeedFirstHeadHR(ctx)
}

// OpenDatabase подключается к БД из конфига
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Env)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")
	return db, nil
}

// NewDeps собирает реальные клиенты по конфигу; cleanup закрывает их
func NewDeps(ctx context.Context, cfg *config.Config) (Deps, func(), error) {
	var deps Deps
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Failed to close dependency", "error", err)
			}
		}
	}

	// --- Storage ---
	store, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return deps, cleanup, fmt.Errorf("failed to initialize storage: %w", err)
	}
	deps.Storage = store
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// --- Email ---
	var provider email.Provider
	if cfg.Email.Provider == "mock" {
		logger.Warn("--- Email provider is MOCK: messages are only logged ---")
		provider = &MockEmailProvider{}
	} else {
		provider, err = email.NewProvider(email.ProviderConfig{
			Provider:     cfg.Email.Provider,
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			UseTLS:       cfg.Email.UseTLS,
			APIKey:       cfg.Email.APIKey,
			APISecret:    cfg.Email.APISecret,
		})
		if err != nil {
			return deps, cleanup, fmt.Errorf("failed to initialize email provider: %w", err)
		}
	}
	templates, err := email.NewTemplateManager(cfg.Email.TemplatesDir)
	if err != nil {
		return deps, cleanup, fmt.Errorf("failed to load email templates: %w", err)
	}
	deps.Notifier = email.NewNotifier(provider, templates, cfg.Email.FromEmail, cfg.Email.FromName)
	logger.Info("Email notifier initialized", "provider", provider.Name())

	// --- AI scoring (опционально) ---
	if cfg.AI.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.AI.GeminiAPIKey, gemini.Model(cfg.AI.Model))
		if err != nil {
			return deps, cleanup, fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		client.SetMinuteRateLimit(cfg.AI.RequestsPerMin)
		client.SetDayRateLimit(cfg.AI.RequestsPerDay)
		closers = append(closers, client.Close)
		deps.Scorer = client
		logger.Info("AI scoring enabled", "model", cfg.AI.Model)
	} else {
		logger.Info("AI scoring disabled: gemini_api_key is empty, only internal ingest is available")
	}

	// --- Workflow engine ---
	engine := workflowengine.NewClient(cfg.WorkflowEngine.WebhookURL, cfg.WorkflowEngineTimeout())
	if !engine.Enabled() {
		logger.Warn("Workflow engine webhook is not configured: trigger-schedule will return 503")
	}
	deps.Engine = engine

	return deps, cleanup, nil
}

// Build собирает сервисы, хэндлеры и роутер поверх готовой БД
func Build(cfg *config.Config, db *gorm.DB, deps Deps) (*App, error) {
	apperrors.SetDebug(!cfg.IsProduction())
	metrics.Register()

	bus := events.NewBus()
	if err := metrics.Subscribe(bus); err != nil {
		return nil, fmt.Errorf("subscribe metrics: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	serviceContainer, err := initializeServices(cfg, deps, tokens, bus)
	if err != nil {
		return nil, err
	}
	if err := serviceContainer.DashboardService.Subscribe(bus); err != nil {
		return nil, fmt.Errorf("subscribe dashboard: %w", err)
	}

	appHandlers := initializeHandlers(serviceContainer)

	router := initializeGinRouter(cfg, db)
	routes.RegisterRoutes(router, appHandlers, routes.Guards{
		Auth: middleware.AuthMiddleware(tokens),
		PublicApply: middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(
			cfg.RateLimit.PublicApplyPerMinute,
			cfg.RateLimit.PublicApplyBurst,
		)),
		InternalKey: middleware.InternalKeyMiddleware(cfg.InternalAPIKey),
	})

	return &App{
		Config:   cfg,
		DB:       db,
		Bus:      bus,
		Tokens:   tokens,
		Services: serviceContainer,
		Handlers: appHandlers,
		Router:   router,
	}, nil
}

func initializeServices(cfg *config.Config, deps Deps, tokens *auth.TokenManager, bus events.Bus) (*services.ServiceContainer, error) {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	positionRepo := repositories.NewJobPositionRepository()
	applicationRepo := repositories.NewApplicationRepository()
	historyRepo := repositories.NewHistoryRepository()
	scheduleRepo := repositories.NewScheduleRepository()

	// --- Сервисы ---
	authService := services.NewAuthService(userRepo, refreshTokenRepo, tokens, cfg.RefreshTokenTTL(), deps.Storage, cfg.AvatarPolicy())
	userService := services.NewUserService(userRepo, refreshTokenRepo, deps.Storage)
	positionService := services.NewJobPositionService(positionRepo, bus)
	applicationService := services.NewApplicationService(
		applicationRepo, positionRepo, scheduleRepo, historyRepo,
		deps.Storage, cfg.CVPolicy(), deps.Notifier, deps.Engine, bus,
	)
	scoringService, err := services.NewScoringService(applicationRepo, historyRepo, deps.Storage, deps.Scorer, bus)
	if err != nil {
		return nil, err
	}
	scheduleService := services.NewScheduleService(scheduleRepo)
	dashboardService := services.NewDashboardService(applicationRepo, positionRepo, scheduleRepo)

	return &services.ServiceContainer{
		AuthService:        authService,
		UserService:        userService,
		JobPositionService: positionService,
		ApplicationService: applicationService,
		ScoringService:     scoringService,
		ScheduleService:    scheduleService,
		DashboardService:   dashboardService,
		Notifier:           deps.Notifier,
		Storage:            deps.Storage,
	}, nil
}

func initializeHandlers(svc *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler, svc.AuthService),
		UserHandler:        handlers.NewUserHandler(baseHandler, svc.UserService),
		JobPositionHandler: handlers.NewJobPositionHandler(baseHandler, svc.JobPositionService),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, svc.ApplicationService),
		ScoringHandler:     handlers.NewScoringHandler(baseHandler, svc.ScoringService),
		ScheduleHandler:    handlers.NewScheduleHandler(baseHandler, svc.ScheduleService),
		DashboardHandler:   handlers.NewDashboardHandler(baseHandler, svc.DashboardService),
		HealthHandler:      handlers.NewHealthHandler(baseHandler, Version),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	// multipart целиком в память не грузим
	router.MaxMultipartMemory = 8 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// SeedFirstHeadHR - первый head_hr из конфига, если в системе еще никого нет
func (a *App) SeedFirstHeadHR(ctx context.Context) error {
	seed := a.Config.FirstHeadHR
	if seed.Email == "" || seed.Password == "" {
		logger.Warn("FIRST_HEAD_HR_EMAIL or FIRST_HEAD_HR_PASSWORD is not set. Skipping head_hr seeding.")
		return nil
	}

	created, err := a.Services.AuthService.SeedFirstHeadHR(ctx, a.DB, seed.Name, seed.Email, seed.Password)
	if err != nil {
		return err
	}
	if created {
		logger.Info("✅ Successfully created first head_hr user", "email", seed.Email)
	} else {
		logger.Info("head_hr user already exists. Skipping creation.")
	}
	return nil
}

// StartWorkers - cron-задачи; останавливаются вместе с ctx
func (a *App) StartWorkers(ctx context.Context) error {
	scheduler := workers.NewScheduler(5 * time.Minute)

	if err := scheduler.Add(a.Config.Workers.PositionCloseSchedule,
		workers.NewPositionWorker(a.DB, a.Services.JobPositionService)); err != nil {
		return err
	}
	if a.Services.ScoringService.Enabled() {
		if err := scheduler.Add(a.Config.AI.SweepSchedule,
			workers.NewScoringWorker(a.DB, a.Services.ScoringService, a.Config.AI.BatchSize)); err != nil {
			return err
		}
	}

	scheduler.Start(ctx)
	a.Scheduler = scheduler
	return nil
}

// Serve слушает порт до отмены ctx, затем дает запросам 10 секунд на завершение
func (a *App) Serve(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// Close останавливает воркеры и закрывает пул БД
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if err := database.Close(a.DB); err != nil {
		logger.Warn("Failed to close database", "error", err)
	}
}
