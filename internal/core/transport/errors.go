package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineClosed 引擎已关闭
	ErrEngineClosed = errors.New("transport: engine closed")

	// ErrLinkClosed 链路已关闭
	ErrLinkClosed = errors.New("transport: link closed")

	// ErrNotSender 链路不是发送端
	ErrNotSender = errors.New("transport: link is not a sender")

	// ErrNotOpen 链路尚未打开
	ErrNotOpen = errors.New("transport: link not open")

	// ErrFrameTooLarge 帧超过大小限制
	ErrFrameTooLarge = errors.New("transport: frame too large")

	// ErrUnexpectedFrame 收到不符合状态的帧
	ErrUnexpectedFrame = errors.New("transport: unexpected frame")

	// ErrRejected 对端拒绝了链路
	ErrRejected = errors.New("transport: link rejected")
)

// DetachError 对端以错误原因关闭链路
type DetachError struct {
	// Link 链路名称
	Link string

	// Reason 对端给出的原因
	Reason string
}

// Error 实现 error 接口
func (e *DetachError) Error() string {
	return fmt.Sprintf("transport: link %s detached: %s", e.Link, e.Reason)
}

// Is 使 errors.Is(err, ErrRejected) 成立
func (e *DetachError) Is(target error) bool {
	return target == ErrRejected
}
