package services

import (
	"context"
	"fmt"
	"time"

	"hrflow_backend/internal/events"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/pkg/apperrors"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const (
	dashboardCacheTTL   = 30 * time.Second
	dashboardSummaryKey = "dashboard:summary"

	DefaultChartDays = 30
	MaxChartDays     = 365
)

type DashboardService interface {
	// Summary для менеджера считается только по его вакансиям
	Summary(ctx context.Context, db *gorm.DB, actor Actor) (*dto.DashboardSummary, error)
	RecentApplications(ctx context.Context, db *gorm.DB, actor Actor, limit int) ([]dto.ApplicationResponse, error)
	Charts(ctx context.Context, db *gorm.DB, days int) (*dto.DashboardCharts, error)
	// Subscribe сбрасывает кеш при смене статусов
	Subscribe(bus events.Bus) error
}

type dashboardService struct {
	appRepo      repositories.ApplicationRepository
	positionRepo repositories.JobPositionRepository
	scheduleRepo repositories.ScheduleRepository
	cache        *gocache.Cache
	now          func() time.Time
}

func NewDashboardService(
	appRepo repositories.ApplicationRepository,
	positionRepo repositories.JobPositionRepository,
	scheduleRepo repositories.ScheduleRepository,
) DashboardService {
	return &dashboardService{
		appRepo:      appRepo,
		positionRepo: positionRepo,
		scheduleRepo: scheduleRepo,
		cache:        gocache.New(dashboardCacheTTL, 2*dashboardCacheTTL),
		now:          utcNow,
	}
}

func (s *dashboardService) Summary(ctx context.Context, db *gorm.DB, actor Actor) (*dto.DashboardSummary, error) {
	var managerID string
	key := dashboardSummaryKey
	if actor.IsManager() {
		managerID = actor.UserID
		key = dashboardSummaryKey + ":" + managerID
	}
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.DashboardSummary), nil
	}

	positions, err := s.positionRepo.CountByStatus(db, managerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	applications, err := s.appRepo.CountByStatus(db, managerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	hires, err := s.appRepo.CountReachedStatusSince(db, models.ApplicationStatusHired, monthStart, managerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	upcoming, err := s.scheduleRepo.CountUpcoming(db, now, now.Add(7*24*time.Hour), managerID,
		models.ScheduleKindManagerInterview, models.ScheduleKindFinalInterview)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var total int64
	for _, c := range applications {
		total += c
	}

	summary := &dto.DashboardSummary{
		PositionsByStatus:    positions,
		ApplicationsByStatus: applications,
		OpenPositions:        positions[models.PositionStatusOpen],
		TotalApplications:    total,
		HiresThisMonth:       hires,
		UpcomingInterviews:   upcoming,
	}
	s.cache.Set(key, summary, gocache.DefaultExpiration)
	return summary, nil
}

// RecentApplications - без кеша: выборка и AllowedNext зависят от роли
func (s *dashboardService) RecentApplications(ctx context.Context, db *gorm.DB, actor Actor, limit int) ([]dto.ApplicationResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var (
		apps []models.CvApplication
		err  error
	)
	if actor.IsManager() {
		archived := false
		apps, _, err = s.appRepo.FindWithFilter(db, repositories.ApplicationFilter{
			ManagerID:  actor.UserID,
			IsArchived: &archived,
			Page:       1,
			PageSize:   limit,
		})
	} else {
		apps, err = s.appRepo.FindRecent(db, limit)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp = append(resp, buildApplicationResponse(&apps[i], actor))
	}
	return resp, nil
}

// Charts - по всей компании, маршрут закрыт для менеджеров
func (s *dashboardService) Charts(ctx context.Context, db *gorm.DB, days int) (*dto.DashboardCharts, error) {
	if days <= 0 {
		days = DefaultChartDays
	}
	if days > MaxChartDays {
		days = MaxChartDays
	}

	key := fmt.Sprintf("dashboard:charts:%d", days)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.DashboardCharts), nil
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))

	created, err := s.appRepo.CreatedSince(db, since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	perPosition, err := s.appRepo.CountByPosition(db, since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byStatus, err := s.appRepo.CountByStatus(db, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	charts := &dto.DashboardCharts{
		Days:                    days,
		ApplicationsPerDay:      bucketByDay(created, since, days),
		ApplicationsPerPosition: make([]dto.PositionCount, 0, len(perPosition)),
		StatusFunnel:            make([]dto.FunnelStep, 0, len(models.ApplicationStatuses)),
	}
	for _, row := range perPosition {
		name := "(deleted position)"
		if row.PositionName != nil {
			name = *row.PositionName
		}
		charts.ApplicationsPerPosition = append(charts.ApplicationsPerPosition, dto.PositionCount{
			PositionID:   row.PositionID,
			PositionName: name,
			Count:        row.Count,
		})
	}
	for _, status := range models.ApplicationStatuses {
		charts.StatusFunnel = append(charts.StatusFunnel, dto.FunnelStep{Status: status, Count: byStatus[status]})
	}

	s.cache.Set(key, charts, gocache.DefaultExpiration)
	return charts, nil
}

func (s *dashboardService) Subscribe(bus events.Bus) error {
	flush := func() { s.cache.Flush() }
	if err := bus.Subscribe(events.ApplicationStatusChangedTopic, func(events.ApplicationStatusChanged) { flush() }); err != nil {
		return err
	}
	if err := bus.Subscribe(events.ApplicationSubmittedTopic, func(events.ApplicationSubmitted) { flush() }); err != nil {
		return err
	}
	return bus.Subscribe(events.PositionStatusChangedTopic, func(events.PositionStatusChanged) { flush() })
}

// bucketByDay - ровно days точек, пустые дни с нулем
func bucketByDay(created []time.Time, since time.Time, days int) []dto.DayCount {
	counts := make(map[string]int64, days)
	for _, t := range created {
		counts[t.UTC().Format("2006-01-02")]++
	}
	out := make([]dto.DayCount, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, dto.DayCount{Date: day, Count: counts[day]})
	}
	return out
}
