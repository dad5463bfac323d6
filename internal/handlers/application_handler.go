package handlers

import (
	"fmt"
	"io"
	"net/http"

	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/services"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// CVFormField - имя поля файла в публичной анкете
const CVFormField = "cv_file"

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

// =======================
// Публичный прием анкет
// =======================

// Apply godoc
// @Summary Отправить анкету с CV
// @Tags public
// @Accept multipart/form-data
// @Produce json
// @Param full_name formData string true "ФИО"
// @Param email formData string true "Email"
// @Param qualification formData string false "Квалификация"
// @Param agree_terms formData bool true "Согласие с условиями"
// @Param applied_position_id formData string true "ID вакансии"
// @Param cv_file formData file true "CV (pdf, doc, docx)"
// @Success 201 {object} dto.SubmitApplicationResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 429 {object} apperrors.ErrorResponse
// @Router /public/applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dto.PublicApplicationRequest
	if !h.BindAndValidate_Form(c, &req) {
		return
	}

	file, err := c.FormFile(CVFormField)
	if err != nil {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{CVFormField: "CV file is required"}))
		return
	}

	resp, err := h.applicationService.Submit(c.Request.Context(), h.GetDB(c), &req, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// =======================
// HR: чтение
// =======================

// ListApplications godoc
// @Summary Заявки кандидатов
// @Description Менеджер видит заявки только по своим вакансиям
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Статус"
// @Param position_id query string false "ID вакансии"
// @Param archived query bool false "Архивные"
// @Param search query string false "Имя или email"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.ApplicationListResponse
// @Router /hr/applications [get]
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var filter dto.ApplicationFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	page, pageSize := ParsePagination(c)

	list, err := h.applicationService.List(c.Request.Context(), h.GetDB(c), actor, filter, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetApplication godoc
// @Summary Заявка по ID
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /hr/applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	app, err := h.applicationService.Get(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// DownloadCV godoc
// @Summary Скачать CV
// @Tags applications
// @Produce application/octet-stream
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {file} file
// @Router /hr/applications/{id}/cv [get]
func (h *ApplicationHandler) DownloadCV(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	cv, err := h.applicationService.GetCV(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer cv.Body.Close()

	c.Header("Content-Type", cv.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, cv.FileName))
	c.Header("Cache-Control", "private, no-store")
	c.Status(http.StatusOK)

	// заголовки уже ушли, остается только залогировать
	if _, err := io.Copy(c.Writer, cv.Body); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to stream CV", err, "application_id", c.Param("id"))
		_ = c.Error(err)
	}
}

// GetHistory godoc
// @Summary История статусов заявки
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {array} dto.HistoryEntryResponse
// @Router /hr/applications/{id}/history [get]
func (h *ApplicationHandler) GetHistory(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	history, err := h.applicationService.History(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// =======================
// HR: workflow
// =======================

// UpdateStatus godoc
// @Summary Сменить статус и/или дописать заметки
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateStatusRequest true "Новый статус"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /hr/applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateStatus(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// ScheduleInterview godoc
// @Summary Назначить интервью/онбординг
// @Description Этап определяется статусом: INTERVIEW_QUEUED, PENDING_FINAL_DECISION или HIRED
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.ScheduleInterviewRequest true "Слот"
// @Success 200 {object} dto.ScheduleInterviewResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Failure 502 {object} apperrors.ErrorResponse
// @Router /hr/applications/{id}/schedule [post]
func (h *ApplicationHandler) ScheduleInterview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ScheduleInterviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.applicationService.ScheduleInterview(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ManagerFeedback godoc
// @Summary Решение менеджера после интервью
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.ManagerFeedbackRequest true "Hire | Reject"
// @Success 200 {object} dto.ApplicationResponse
// @Router /hr/applications/{id}/manager-feedback [post]
func (h *ApplicationHandler) ManagerFeedback(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ManagerFeedbackRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.ManagerFeedback(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// FinalDecision godoc
// @Summary Финальное решение head_hr
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.FinalDecisionRequest true "Hired | Not Hired"
// @Success 200 {object} dto.ApplicationResponse
// @Router /hr/applications/{id}/final-decision [post]
func (h *ApplicationHandler) FinalDecision(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.FinalDecisionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.FinalDecision(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// TriggerSchedule godoc
// @Summary Запустить внешний сценарий планирования
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.TriggerScheduleResponse
// @Failure 502 {object} apperrors.ErrorResponse
// @Failure 503 {object} apperrors.ErrorResponse
// @Router /hr/applications/{id}/trigger-schedule [post]
func (h *ApplicationHandler) TriggerSchedule(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	resp, err := h.applicationService.TriggerSchedule(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Archive godoc
// @Summary Архивировать/разархивировать заявку
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.ArchiveRequest true "is_archived"
// @Success 200 {object} dto.ApplicationResponse
// @Router /hr/applications/{id}/archive [put]
func (h *ApplicationHandler) Archive(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ArchiveRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.Archive(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), *req.IsArchived)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
