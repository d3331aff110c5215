// Package metrics 定义闹钟服务的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "alarma_"

// 结果标签取值
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultRejected = "rejected"
)

// Metrics 指标集合，由 main 创建后注入各 Service
type Metrics struct {
	AlarmOperations   *prometheus.CounterVec
	StatusEvaluations *prometheus.CounterVec
	DeviceCommands    *prometheus.CounterVec
	TelemetryMessages *prometheus.CounterVec
}

// New 创建并注册全部指标
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AlarmOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarm_operations_total",
				Help: "Total alarm store operations by operation and result",
			},
			[]string{"op", "result"},
		),
		StatusEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "status_evaluations_total",
				Help: "Total alarm status evaluations by resulting state",
			},
			[]string{"state"},
		),
		DeviceCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "device_commands_total",
				Help: "Total device commands by command and result",
			},
			[]string{"command", "result"},
		),
		TelemetryMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "telemetry_messages_total",
				Help: "Total telemetry messages received by topic",
			},
			[]string{"topic"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.AlarmOperations,
			m.StatusEvaluations,
			m.DeviceCommands,
			m.TelemetryMessages,
		)
	}
	return m
}

// NewNop 创建不注册到任何 Registry 的指标，供测试使用
func NewNop() *Metrics {
	return New(nil)
}

// ObserveAlarmOp 记录一次存储操作
func (m *Metrics) ObserveAlarmOp(op string, err error) {
	m.AlarmOperations.WithLabelValues(op, result(err)).Inc()
}

// ObserveStatus 记录一次状态判定
func (m *Metrics) ObserveStatus(state string) {
	m.StatusEvaluations.WithLabelValues(state).Inc()
}

// ObserveCommand 记录一次设备指令
func (m *Metrics) ObserveCommand(command, res string) {
	m.DeviceCommands.WithLabelValues(command, res).Inc()
}

// ObserveTelemetry 记录一条遥测消息
func (m *Metrics) ObserveTelemetry(topic string) {
	m.TelemetryMessages.WithLabelValues(topic).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
