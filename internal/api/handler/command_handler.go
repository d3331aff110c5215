package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"alarma-iot/backend/internal/dto"
	"alarma-iot/backend/internal/service"
	"alarma-iot/backend/pkg/response"
)

// CommandHandler 设备指令 HTTP 处理器
type CommandHandler struct {
	commandSvc service.CommandService
}

// NewCommandHandler 创建 CommandHandler
func NewCommandHandler(commandSvc service.CommandService) *CommandHandler {
	return &CommandHandler{commandSvc: commandSvc}
}

// SendCommand 向设备下发 on/off 指令
// POST /alarma/command
func (h *CommandHandler) SendCommand(c *gin.Context) {
	var req dto.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40004, `只接受 "on" 或 "off" 指令`)
		return
	}

	result, err := h.commandSvc.Send(c.Request.Context(), req.Command)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, service.ErrInvalidCommand) {
			response.BadRequest(c, 40004, `只接受 "on" 或 "off" 指令`)
			return
		}
		response.InternalError(c, 50003, "指令发送失败。")
		return
	}

	response.OK(c, result)
}
