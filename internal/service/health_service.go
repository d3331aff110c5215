package service

import (
	"context"

	"go.uber.org/zap"

	"alarma-iot/backend/internal/dto"
	"alarma-iot/backend/internal/repository"
)

// HealthService 依赖健康检查
type HealthService interface {
	// Check 返回健康状况；数据库不可用时 ok=false
	Check(ctx context.Context) (resp *dto.HealthResponse, ok bool)
}

type healthService struct {
	repo   *repository.Repository
	broker Broker
	logger *zap.Logger
}

// NewHealthService 创建 HealthService 实例
func NewHealthService(repo *repository.Repository, broker Broker, logger *zap.Logger) HealthService {
	return &healthService{repo: repo, broker: broker, logger: logger}
}

func (s *healthService) Check(ctx context.Context) (*dto.HealthResponse, bool) {
	resp := &dto.HealthResponse{Status: "ok", Database: "up", MQTT: "up"}
	ok := true

	if err := s.repo.Alarm.Ping(ctx); err != nil {
		s.logger.Warn("健康检查: 数据库不可用", zap.Error(err))
		resp.Status, resp.Database = "degraded", "down"
		ok = false
	}
	// 代理断线时 paho 会自动重连，仅标记不判定失败
	if !s.broker.IsConnected() {
		resp.MQTT = "down"
		if ok {
			resp.Status = "degraded"
		}
	}

	return resp, ok
}
