package routes

import (
	"hrflow_backend/internal/handlers"
	"hrflow_backend/internal/middleware"
	"hrflow_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupHRRoutes - внутренний кабинет: head_hr, staff_hr, manager
func SetupHRRoutes(hr *gin.RouterGroup, h *handlers.AppHandlers, guards Guards) {
	onlyHR := middleware.RequireRoles(hrRoles...)
	anyStaff := middleware.RequireRoles(allRoles...)
	headHR := middleware.RequireRoles(models.UserRoleHeadHR)

	// 🔑 Auth
	auth := hr.Group("/auth")
	{
		auth.POST("/login", h.AuthHandler.Login)
		auth.POST("/refresh", h.AuthHandler.RefreshToken)
		auth.POST("/logout", h.AuthHandler.Logout)
	}
	me := auth.Group("/me", guards.Auth, anyStaff)
	{
		me.GET("", h.AuthHandler.Me)
		me.PUT("", h.AuthHandler.UpdateMe)
		me.PUT("/password", h.AuthHandler.ChangePassword)
		me.POST("/avatar", h.AuthHandler.UploadAvatar)
	}

	// дальше только с токеном
	secured := hr.Group("", guards.Auth, anyStaff)

	// 👤 Users
	users := secured.Group("/users")
	{
		users.GET("", onlyHR, h.UserHandler.ListUsers)
		users.GET("/:id", onlyHR, h.UserHandler.GetUser)
		users.POST("", headHR, h.UserHandler.CreateUser)
		users.PUT("/:id", headHR, h.UserHandler.UpdateUser)
		users.DELETE("/:id", headHR, h.UserHandler.DeleteUser)
	}

	// 📋 Job positions (права на переходы проверяет сервис)
	positions := secured.Group("/job-positions")
	{
		positions.GET("", h.JobPositionHandler.ListPositions)
		positions.GET("/:id", h.JobPositionHandler.GetPosition)
		positions.POST("", h.JobPositionHandler.CreatePosition)
		positions.PUT("/:id", h.JobPositionHandler.UpdatePosition)
	}

	// 📄 Applications (роли на переходах проверяет workflow)
	applications := secured.Group("/applications")
	{
		applications.GET("", h.ApplicationHandler.ListApplications)
		applications.GET("/:id", h.ApplicationHandler.GetApplication)
		applications.GET("/:id/cv", h.ApplicationHandler.DownloadCV)
		applications.GET("/:id/history", h.ApplicationHandler.GetHistory)

		applications.PUT("/:id/status", h.ApplicationHandler.UpdateStatus)
		applications.POST("/:id/schedule", h.ApplicationHandler.ScheduleInterview)
		applications.POST("/:id/manager-feedback", h.ApplicationHandler.ManagerFeedback)
		applications.POST("/:id/final-decision", h.ApplicationHandler.FinalDecision)
		applications.POST("/:id/trigger-schedule", onlyHR, h.ApplicationHandler.TriggerSchedule)
		applications.PUT("/:id/archive", onlyHR, h.ApplicationHandler.Archive)
	}

	// 📅 Schedules
	schedules := secured.Group("/schedules")
	{
		schedules.GET("", h.ScheduleHandler.ListSchedules)
		schedules.POST("", onlyHR, h.ScheduleHandler.CreateSchedule)
		schedules.PUT("/:id", onlyHR, h.ScheduleHandler.UpdateSchedule)
		schedules.DELETE("/:id", onlyHR, h.ScheduleHandler.DeleteSchedule)
	}

	// 📊 Dashboard
	dashboard := secured.Group("/dashboard")
	{
		dashboard.GET("/summary", h.DashboardHandler.Summary)
		dashboard.GET("/recent-applications", h.DashboardHandler.RecentApplications)
		dashboard.GET("/charts", onlyHR, h.DashboardHandler.Charts)
	}
}
