package handlers

import (
	"net/http"

	"hrflow_backend/internal/services"
	"hrflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobPositionHandler struct {
	*BaseHandler
	positionService services.JobPositionService
}

func NewJobPositionHandler(base *BaseHandler, positionService services.JobPositionService) *JobPositionHandler {
	return &JobPositionHandler{
		BaseHandler:     base,
		positionService: positionService,
	}
}

// ListPositions godoc
// @Summary Заявки на вакансии
// @Description Менеджер видит только свои заявки
// @Tags job-positions
// @Produce json
// @Security BearerAuth
// @Param status query string false "DRAFT | APPROVED | REJECTED | OPEN | CLOSED"
// @Param archived query bool false "Архивные"
// @Param requested_by query string false "ID инициатора"
// @Param search query string false "Поиск по названию"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.JobPositionListResponse
// @Router /hr/job-positions [get]
func (h *JobPositionHandler) ListPositions(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var filter dto.JobPositionFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	page, pageSize := ParsePagination(c)

	positions, err := h.positionService.List(c.Request.Context(), h.GetDB(c), actor, filter, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, positions)
}

// GetPosition godoc
// @Summary Заявка на вакансию по ID
// @Tags job-positions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Position ID"
// @Success 200 {object} dto.JobPositionResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /hr/job-positions/{id} [get]
func (h *JobPositionHandler) GetPosition(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	position, err := h.positionService.Get(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, position)
}

// CreatePosition godoc
// @Summary Создать заявку на вакансию
// @Description Статус из тела игнорируется, заявка всегда создается в DRAFT
// @Tags job-positions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobPositionRequest true "Вакансия"
// @Success 201 {object} dto.JobPositionResponse
// @Router /hr/job-positions [post]
func (h *JobPositionHandler) CreatePosition(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateJobPositionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	position, err := h.positionService.Create(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, position)
}

// UpdatePosition godoc
// @Summary Изменить заявку, сменить статус или архивировать
// @Tags job-positions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Position ID"
// @Param request body dto.UpdateJobPositionRequest true "Изменения"
// @Success 200 {object} dto.JobPositionResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /hr/job-positions/{id} [put]
func (h *JobPositionHandler) UpdatePosition(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateJobPositionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	position, err := h.positionService.Update(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, position)
}

// ListPublicPositions godoc
// @Summary Открытые вакансии для кандидатов
// @Tags public
// @Produce json
// @Success 200 {array} dto.PublicJobPositionResponse
// @Router /public/job-positions [get]
func (h *JobPositionHandler) ListPublicPositions(c *gin.Context) {
	positions, err := h.positionService.ListPublic(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, positions)
}

// GetPublicPosition godoc
// @Summary Открытая вакансия по ID
// @Tags public
// @Produce json
// @Param id path string true "Position ID"
// @Success 200 {object} dto.PublicJobPositionResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /public/job-positions/{id} [get]
func (h *JobPositionHandler) GetPublicPosition(c *gin.Context) {
	position, err := h.positionService.GetPublic(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, position)
}
