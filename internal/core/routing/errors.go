package routing

import "errors"

// 路由模块错误定义
var (
	// ErrNilHandler 处理器为空
	ErrNilHandler = errors.New("routing: nil handler")
)
