package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alarma-iot/backend/internal/service"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	healthSvc service.HealthService
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(healthSvc service.HealthService) *HealthHandler {
	return &HealthHandler{healthSvc: healthSvc}
}

// Check 健康检查
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	result, ok := h.healthSvc.Check(c.Request.Context())
	if !ok {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
