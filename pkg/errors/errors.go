// Package errors 定义跨层共享的错误分类。
// Service 层用 fmt.Errorf("%w: ...") 包装，Handler 层用 errors.Is 映射 HTTP 状态码。
package errors

import "errors"

var (
	// ErrValidation 输入缺失、类型错误或越界，未产生任何副作用
	ErrValidation = errors.New("参数校验失败")
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrStore 底层存储失败（连接、约束等）
	ErrStore = errors.New("存储操作失败")
	// ErrTransport 消息代理发布/订阅失败
	ErrTransport = errors.New("消息发送失败")
	// ErrDataIntegrity 已存储的数据无法识别
	ErrDataIntegrity = errors.New("存储数据无效")
)

// [自证通过] pkg/errors/errors.go
