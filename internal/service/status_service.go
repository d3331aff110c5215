package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"alarma-iot/backend/internal/dto"
	"alarma-iot/backend/internal/repository"
	apperrors "alarma-iot/backend/pkg/errors"
	"alarma-iot/backend/pkg/metrics"
)

// AlarmState 闹钟状态
type AlarmState string

const (
	StateNone     AlarmState = "none"
	StateInactive AlarmState = "inactive"
	StateActive   AlarmState = "active"
)

var stateMessages = map[AlarmState]string{
	StateNone:     "当前没有闹钟。",
	StateInactive: "闹钟还没到时间。",
	StateActive:   "闹钟正在响铃。",
}

// EvaluateState 只比较时和分，忽略 alarmTime 的日期：
// 这是一个按天重复的时钟判断，而非绝对截止时间判断。
func EvaluateState(alarmTime, now time.Time) AlarmState {
	alarmHour, alarmMinute := alarmTime.Hour(), alarmTime.Minute()
	nowHour, nowMinute := now.Hour(), now.Minute()

	if nowHour > alarmHour || (nowHour == alarmHour && nowMinute >= alarmMinute) {
		return StateActive
	}
	return StateInactive
}

// StatusService 闹钟状态判定
type StatusService interface {
	GetStatus(ctx context.Context) (*dto.AlarmStatusResponse, error)
}

type statusService struct {
	repo    *repository.Repository
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewStatusService 创建 StatusService 实例
func NewStatusService(repo *repository.Repository, now func() time.Time, m *metrics.Metrics, logger *zap.Logger) StatusService {
	return &statusService{repo: repo, now: now, metrics: m, logger: logger}
}

func (s *statusService) GetStatus(ctx context.Context) (*dto.AlarmStatusResponse, error) {
	now := s.now()

	// alarmTime 最早的一条为唯一有效闹钟，其余记录忽略
	alarm, err := s.repo.Alarm.Earliest(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrDataIntegrity) {
			s.logger.Error("alarmTime 数据无效", zap.String("op", "status"), zap.Error(err))
			return nil, err
		}
		s.logger.Error("查询闹钟状态失败", zap.String("op", "status"), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}

	state := StateNone
	if alarm != nil {
		state = EvaluateState(alarm.AlarmTime.Time, now)
	}
	s.metrics.ObserveStatus(string(state))

	// 每次判定为 active 都记录一条，不按状态变化去重
	if state == StateActive {
		s.logger.Info("闹钟状态判定为响铃中", zap.Int64("id", alarm.ID), zap.Time("alarm_time", alarm.AlarmTime.Time))
	}

	return &dto.AlarmStatusResponse{
		State:   string(state),
		Message: stateMessages[state],
	}, nil
}
