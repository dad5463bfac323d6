package handlers

import (
	"net/http"

	"hrflow_backend/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
)

type DashboardHandler struct {
	*BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(base *BaseHandler, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      base,
		dashboardService: dashboardService,
	}
}

// Summary godoc
// @Summary Сводка по вакансиям и заявкам
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardSummary
// @Router /hr/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	summary, err := h.dashboardService.Summary(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RecentApplications godoc
// @Summary Последние заявки
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "По умолчанию 10, максимум 50"
// @Success 200 {array} dto.ApplicationResponse
// @Router /hr/dashboard/recent-applications [get]
func (h *DashboardHandler) RecentApplications(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	limit := ParseQueryInt(c, "limit", defaultRecentLimit)
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	recent, err := h.dashboardService.RecentApplications(c.Request.Context(), h.GetDB(c), actor, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recent)
}

// Charts godoc
// @Summary Данные для графиков
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param days query int false "Период в днях (по умолчанию 30)"
// @Success 200 {object} dto.DashboardCharts
// @Router /hr/dashboard/charts [get]
func (h *DashboardHandler) Charts(c *gin.Context) {
	days := ParseQueryInt(c, "days", services.DefaultChartDays)

	charts, err := h.dashboardService.Charts(c.Request.Context(), h.GetDB(c), days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, charts)
}
