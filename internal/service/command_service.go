package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alarma-iot/backend/internal/dto"
	apperrors "alarma-iot/backend/pkg/errors"
	"alarma-iot/backend/pkg/metrics"
	"alarma-iot/backend/pkg/mqtt"
)

// ── 设备指令模块业务错误 ──

var ErrInvalidCommand = fmt.Errorf(`%w: 只接受 "on" 或 "off" 指令`, apperrors.ErrValidation)

// 允许下发给设备的指令
const (
	CommandOn  = "on"
	CommandOff = "off"
)

// Publisher 向代理主题发布消息
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Subscriber 订阅代理主题
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, h mqtt.Handler) error
	Unsubscribe(ctx context.Context, topic string) error
}

// Broker 进程共享的代理连接
type Broker interface {
	Publisher
	Subscriber
	IsConnected() bool
}

// CommandService 设备指令转发
type CommandService interface {
	Send(ctx context.Context, command string) (*dto.CommandResponse, error)
}

type commandService struct {
	publisher Publisher
	topic     string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewCommandService 创建 CommandService 实例，topic 为设备指令主题
func NewCommandService(publisher Publisher, topic string, m *metrics.Metrics, logger *zap.Logger) CommandService {
	return &commandService{publisher: publisher, topic: topic, metrics: m, logger: logger}
}

func (s *commandService) Send(ctx context.Context, command string) (*dto.CommandResponse, error) {
	if command != CommandOn && command != CommandOff {
		s.metrics.ObserveCommand("invalid", metrics.ResultRejected)
		return nil, ErrInvalidCommand
	}

	if err := s.publisher.Publish(ctx, s.topic, []byte(command)); err != nil {
		s.metrics.ObserveCommand(command, metrics.ResultError)
		s.logger.Error("发送设备指令失败",
			zap.String("op", "command"),
			zap.String("topic", s.topic),
			zap.String("command", command),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTransport, err)
	}

	s.metrics.ObserveCommand(command, metrics.ResultSuccess)
	s.logger.Info("设备指令已发送", zap.String("topic", s.topic), zap.String("command", command))

	return &dto.CommandResponse{
		Message: fmt.Sprintf(`指令 "%s" 已发送！`, command),
		Command: command,
	}, nil
}
