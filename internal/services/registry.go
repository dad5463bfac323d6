package services

import (
	"hrflow_backend/internal/email"
	"hrflow_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService        AuthService
	UserService        UserService
	JobPositionService JobPositionService
	ApplicationService ApplicationService
	ScoringService     ScoringService
	ScheduleService    ScheduleService
	DashboardService   DashboardService
	Notifier           email.Notifier
	Storage            storage.Storage
}
