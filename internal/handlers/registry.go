package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	UserHandler        *UserHandler
	JobPositionHandler *JobPositionHandler
	ApplicationHandler *ApplicationHandler
	ScoringHandler     *ScoringHandler
	ScheduleHandler    *ScheduleHandler
	DashboardHandler   *DashboardHandler
	HealthHandler      *HealthHandler
}
