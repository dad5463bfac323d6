package handlers

import (
	"net/http"

	"hrflow_backend/internal/models"
	"hrflow_backend/internal/services"
	"hrflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	*BaseHandler
	scheduleService services.ScheduleService
}

func NewScheduleHandler(base *BaseHandler, scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		BaseHandler:     base,
		scheduleService: scheduleService,
	}
}

// ListSchedules godoc
// @Summary Календарь
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param from query string false "RFC3339"
// @Param to query string false "RFC3339"
// @Param kind query string false "MANAGER_INTERVIEW | FINAL_INTERVIEW | ONBOARDING | MANUAL"
// @Success 200 {array} dto.ScheduleResponse
// @Router /hr/schedules [get]
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	from, to, err := ParseQueryTimeRange(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filter := dto.ScheduleFilter{
		From: from,
		To:   to,
		Kind: models.ScheduleKind(c.Query("kind")),
	}
	if !h.validate(c, &filter, "query") {
		return
	}

	schedules, err := h.scheduleService.List(c.Request.Context(), h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedules)
}

// CreateSchedule godoc
// @Summary Ручная запись календаря (праздник, блокировка)
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateScheduleRequest true "Запись"
// @Success 201 {object} dto.ScheduleResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /hr/schedules [post]
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	schedule, err := h.scheduleService.Create(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// UpdateSchedule godoc
// @Summary Изменить ручную запись
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param request body dto.UpdateScheduleRequest true "Изменения"
// @Success 200 {object} dto.ScheduleResponse
// @Router /hr/schedules/{id} [put]
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	schedule, err := h.scheduleService.Update(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// DeleteSchedule godoc
// @Summary Удалить ручную запись
// @Tags schedules
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /hr/schedules/{id} [delete]
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), h.GetDB(c), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
