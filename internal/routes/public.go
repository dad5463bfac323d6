package routes

import (
	"hrflow_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes - страница вакансий и анкета кандидата, без авторизации
func SetupPublicRoutes(public *gin.RouterGroup, h *handlers.AppHandlers, guards Guards) {
	positions := public.Group("/job-positions")
	{
		positions.GET("", h.JobPositionHandler.ListPublicPositions)
		positions.GET("/:id", h.JobPositionHandler.GetPublicPosition)
	}

	public.POST("/applications", guards.PublicApply, h.ApplicationHandler.Apply)
}

// SetupInternalRoutes - межсервисные вызовы по X-Internal-Key
func SetupInternalRoutes(internal *gin.RouterGroup, h *handlers.AppHandlers, guards Guards) {
	internal.Use(guards.InternalKey)
	{
		internal.PUT("/applications/:id/score", h.ScoringHandler.IngestScore)
	}
}
