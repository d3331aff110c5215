package dto

// ── 闹钟模块 DTO ──

// SetAlarmRequest 设置闹钟请求
// 指针字段用于区分"缺失"与零值，范围校验在 Service 层完成
type SetAlarmRequest struct {
	Hour    *int `json:"hour"    binding:"required"`
	Minutes *int `json:"minutes" binding:"required"`
}

// UpdateAlarmRequest 修改闹钟请求
type UpdateAlarmRequest struct {
	ID      *int64 `json:"id"      binding:"required"`
	Hour    *int   `json:"hour"    binding:"required"`
	Minutes *int   `json:"minutes" binding:"required"`
}

// SetAlarmResponse 设置闹钟响应
type SetAlarmResponse struct {
	Message   string `json:"message"`
	ID        int64  `json:"id"`
	Scheduled string `json:"scheduled"`
}

// UpdateAlarmResponse 修改闹钟响应
type UpdateAlarmResponse struct {
	Message     string `json:"message"`
	UpdatedTime string `json:"updatedTime"`
}

// CancelAlarmResponse 取消全部闹钟响应
type CancelAlarmResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// AlarmStatusResponse 闹钟状态响应，state 取值 none / inactive / active
type AlarmStatusResponse struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

// ── 设备指令 DTO ──

// CommandRequest 设备指令请求
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// CommandResponse 设备指令响应
type CommandResponse struct {
	Message string `json:"message"`
	Command string `json:"command"`
}

// ── 健康检查 ──

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	MQTT     string `json:"mqtt"`
}
