package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"alarma-iot/backend/internal/dto"
	"alarma-iot/backend/internal/service"
	apperrors "alarma-iot/backend/pkg/errors"
	"alarma-iot/backend/pkg/response"
)

// AlarmHandler 闹钟模块 HTTP 处理器
type AlarmHandler struct {
	alarmSvc  service.AlarmService
	statusSvc service.StatusService
}

// NewAlarmHandler 创建 AlarmHandler
func NewAlarmHandler(alarmSvc service.AlarmService, statusSvc service.StatusService) *AlarmHandler {
	return &AlarmHandler{alarmSvc: alarmSvc, statusSvc: statusSvc}
}

// SetAlarm 设置闹钟
// POST /alarma/set
func (h *AlarmHandler) SetAlarm(c *gin.Context) {
	var req dto.SetAlarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "缺少小时或分钟，或取值不是整数。")
		return
	}

	result, err := h.alarmSvc.Set(c.Request.Context(), &req)
	if err != nil {
		h.handleAlarmError(c, err, "无法设置闹钟。")
		return
	}

	response.Created(c, result)
}

// GetStatus 查询闹钟状态
// GET /alarma/status
func (h *AlarmHandler) GetStatus(c *gin.Context) {
	result, err := h.statusSvc.GetStatus(c.Request.Context())
	if err != nil {
		h.handleAlarmError(c, err, "无法检查闹钟状态。")
		return
	}

	response.OK(c, result)
}

// CancelAlarms 取消全部闹钟
// GET /alarma/cancel
func (h *AlarmHandler) CancelAlarms(c *gin.Context) {
	result, err := h.alarmSvc.CancelAll(c.Request.Context())
	if err != nil {
		h.handleAlarmError(c, err, "无法取消闹钟。")
		return
	}

	response.OK(c, result)
}

// UpdateAlarm 修改闹钟
// PUT /alarma/update
func (h *AlarmHandler) UpdateAlarm(c *gin.Context) {
	var req dto.UpdateAlarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "缺少 id、小时或分钟，或取值不是整数。")
		return
	}

	result, err := h.alarmSvc.Update(c.Request.Context(), &req)
	if err != nil {
		h.handleAlarmError(c, err, "无法更新闹钟。")
		return
	}

	response.OK(c, result)
}

// handleAlarmError 统一处理闹钟模块业务错误
// internalMsg 为 5xx 时返回给调用方的说明
func (h *AlarmHandler) handleAlarmError(c *gin.Context, err error, internalMsg string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrAlarmFieldsMissing):
		response.BadRequest(c, 40001, "缺少必填字段。")
	case errors.Is(err, service.ErrAlarmTimeInvalid):
		response.BadRequest(c, 40002, "小时或分钟的取值无效。")
	case errors.Is(err, service.ErrAlarmIDInvalid):
		response.BadRequest(c, 40003, "闹钟 id 无效。")
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, 40401, "找不到指定 id 的闹钟。")
	case errors.Is(err, apperrors.ErrDataIntegrity):
		response.InternalError(c, 50002, "闹钟数据无效。")
	default:
		response.InternalError(c, 50001, internalMsg)
	}
}
