package handlers

import (
	"net/http"

	"hrflow_backend/internal/services"
	"hrflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ScoringHandler - межсервисный прием результатов AI-скоринга
type ScoringHandler struct {
	*BaseHandler
	scoringService services.ScoringService
}

func NewScoringHandler(base *BaseHandler, scoringService services.ScoringService) *ScoringHandler {
	return &ScoringHandler{
		BaseHandler:    base,
		scoringService: scoringService,
	}
}

// IngestScore godoc
// @Summary Записать результат скоринга
// @Description SUBMITTED переходит в REVIEWED от имени системы; для остальных статусов обновляются только поля скоринга
// @Tags internal
// @Accept json
// @Produce json
// @Param X-Internal-Key header string true "Внутренний ключ"
// @Param id path string true "Application ID"
// @Param request body dto.ScoreRequest true "Результат скоринга"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 422 {object} apperrors.ErrorResponse
// @Router /internal/applications/{id}/score [put]
func (h *ScoringHandler) IngestScore(c *gin.Context) {
	var req dto.ScoreRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.scoringService.IngestScore(c.Request.Context(), h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
