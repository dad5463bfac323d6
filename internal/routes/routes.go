package routes

import (
	"hrflow_backend/internal/handlers"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Guards - middleware, которые собирает app и раздает группам маршрутов
type Guards struct {
	Auth        gin.HandlerFunc
	PublicApply gin.HandlerFunc
	InternalKey gin.HandlerFunc
}

var (
	hrRoles  = []models.UserRole{models.UserRoleHeadHR, models.UserRoleStaffHR}
	allRoles = []models.UserRole{models.UserRoleHeadHR, models.UserRoleStaffHR, models.UserRoleManager}
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, guards Guards) {
	// Операционные
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := ginRouter.Group("/api")
	{
		SetupPublicRoutes(api.Group("/public"), appHandlers, guards)
		SetupHRRoutes(api.Group("/hr"), appHandlers, guards)
		SetupInternalRoutes(api.Group("/internal"), appHandlers, guards)
	}

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
