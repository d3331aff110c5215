package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"alarma-iot/backend/pkg/metrics"
	"alarma-iot/backend/pkg/mqtt"
)

// TelemetryListener 被动记录设备上报的遥测数据，不解析、不存储
type TelemetryListener struct {
	sub     Subscriber
	topic   string
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewTelemetryListener 创建遥测监听器，topic 为设备上报主题
func NewTelemetryListener(sub Subscriber, topic string, m *metrics.Metrics, logger *zap.Logger) *TelemetryListener {
	return &TelemetryListener{sub: sub, topic: topic, metrics: m, logger: logger}
}

// Run 订阅遥测主题并逐条记录，阻塞直到 ctx 结束。
// 每条消息在代理回调中直接记录，不经过缓冲，突发上报也不会丢失。
// 订阅失败只记日志；代理重连后客户端会自动恢复订阅。
func (l *TelemetryListener) Run(ctx context.Context) {
	err := l.sub.Subscribe(ctx, l.topic, l.handle)
	if err != nil {
		l.logger.Error("订阅遥测主题失败", zap.String("op", "subscribe"), zap.String("topic", l.topic), zap.Error(err))
	} else {
		l.logger.Info("已订阅遥测主题", zap.String("topic", l.topic))
	}

	<-ctx.Done()
	l.unsubscribe()
}

func (l *TelemetryListener) handle(m mqtt.Message) {
	l.metrics.ObserveTelemetry(m.Topic)
	l.logger.Info("收到设备数据", zap.String("topic", m.Topic), zap.String("payload", string(m.Payload)))
}

func (l *TelemetryListener) unsubscribe() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := l.sub.Unsubscribe(ctx, l.topic); err != nil {
		l.logger.Warn("取消订阅遥测主题失败", zap.String("topic", l.topic), zap.Error(err))
	}
}
