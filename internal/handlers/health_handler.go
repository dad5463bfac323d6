package handlers

import (
	"context"
	"net/http"
	"time"

	"hrflow_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	*BaseHandler
	version string
}

func NewHealthHandler(base *BaseHandler, version string) *HealthHandler {
	return &HealthHandler{BaseHandler: base, version: version}
}

// Health godoc
// @Summary Проверка живости и доступности БД
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.GetDB(c).DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Health check failed", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down", "version": h.version})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up", "version": h.version})
}
