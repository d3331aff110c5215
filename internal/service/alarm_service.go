package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"alarma-iot/backend/internal/dto"
	"alarma-iot/backend/internal/model"
	"alarma-iot/backend/internal/repository"
	apperrors "alarma-iot/backend/pkg/errors"
	"alarma-iot/backend/pkg/metrics"
)

// ── 闹钟模块业务错误 ──

var (
	ErrAlarmFieldsMissing = fmt.Errorf("%w: 缺少小时或分钟", apperrors.ErrValidation)
	ErrAlarmTimeInvalid   = fmt.Errorf("%w: 小时或分钟的取值无效", apperrors.ErrValidation)
	ErrAlarmIDInvalid     = fmt.Errorf("%w: 闹钟 id 无效", apperrors.ErrValidation)
	ErrAlarmNotFound      = fmt.Errorf("%w: 找不到指定 id 的闹钟", apperrors.ErrNotFound)
)

// AlarmService 闹钟存储网关：只负责输入校验与查询构造
type AlarmService interface {
	Set(ctx context.Context, req *dto.SetAlarmRequest) (*dto.SetAlarmResponse, error)
	Update(ctx context.Context, req *dto.UpdateAlarmRequest) (*dto.UpdateAlarmResponse, error)
	CancelAll(ctx context.Context) (*dto.CancelAlarmResponse, error)
}

type alarmService struct {
	repo    *repository.Repository
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAlarmService 创建 AlarmService 实例
func NewAlarmService(repo *repository.Repository, now func() time.Time, m *metrics.Metrics, logger *zap.Logger) AlarmService {
	return &alarmService{repo: repo, now: now, metrics: m, logger: logger}
}

// ────────────────────── Set ──────────────────────

func (s *alarmService) Set(ctx context.Context, req *dto.SetAlarmRequest) (*dto.SetAlarmResponse, error) {
	hour, minute, err := validateClock(req.Hour, req.Minutes)
	if err != nil {
		return nil, err
	}

	alarm := &model.AlarmClock{AlarmTime: s.alarmTimeToday(hour, minute)}
	err = s.repo.Alarm.Create(ctx, alarm)
	s.metrics.ObserveAlarmOp("set", err)
	if err != nil {
		s.logger.Error("设置闹钟失败", zap.String("op", "set"), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}

	s.logger.Info("闹钟已设置", zap.Int64("id", alarm.ID), zap.Time("alarm_time", alarm.AlarmTime.Time))

	return &dto.SetAlarmResponse{
		Message:   "闹钟设置成功！",
		ID:        alarm.ID,
		Scheduled: fmt.Sprintf("闹钟已设定在 %s", formatClock(hour, minute)),
	}, nil
}

// ────────────────────── Update ──────────────────────

func (s *alarmService) Update(ctx context.Context, req *dto.UpdateAlarmRequest) (*dto.UpdateAlarmResponse, error) {
	if req.ID == nil {
		return nil, ErrAlarmFieldsMissing
	}
	hour, minute, err := validateClock(req.Hour, req.Minutes)
	if err != nil {
		return nil, err
	}
	if *req.ID <= 0 {
		return nil, ErrAlarmIDInvalid
	}

	// 与 Set 一致：使用今天的日期，而不是记录原有的日期
	affected, err := s.repo.Alarm.UpdateTime(ctx, *req.ID, s.alarmTimeToday(hour, minute))
	s.metrics.ObserveAlarmOp("update", err)
	if err != nil {
		s.logger.Error("更新闹钟失败", zap.String("op", "update"), zap.Int64("id", *req.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}
	if affected == 0 {
		return nil, ErrAlarmNotFound
	}

	return &dto.UpdateAlarmResponse{
		Message:     "闹钟更新成功！",
		UpdatedTime: fmt.Sprintf("闹钟已更新为 %s", formatClock(hour, minute)),
	}, nil
}

// ────────────────────── CancelAll ──────────────────────

func (s *alarmService) CancelAll(ctx context.Context) (*dto.CancelAlarmResponse, error) {
	deleted, err := s.repo.Alarm.DeleteAll(ctx)
	s.metrics.ObserveAlarmOp("cancel", err)
	if err != nil {
		s.logger.Error("取消闹钟失败", zap.String("op", "cancel"), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}

	s.logger.Info("全部闹钟已取消", zap.Int64("deleted", deleted))

	return &dto.CancelAlarmResponse{
		Message: "已成功取消全部闹钟。",
		Deleted: deleted,
	}, nil
}

// ── 内部辅助方法 ──

// alarmTimeToday 今天的本地日期 + hour:minute:00，不做跨日处理
func (s *alarmService) alarmTimeToday(hour, minute int) model.AlarmTime {
	now := s.now()
	return model.NewAlarmTime(time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()))
}

func validateClock(hour, minute *int) (int, int, error) {
	if hour == nil || minute == nil {
		return 0, 0, ErrAlarmFieldsMissing
	}
	if *hour < 0 || *hour > 23 || *minute < 0 || *minute > 59 {
		return 0, 0, ErrAlarmTimeInvalid
	}
	return *hour, *minute, nil
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
