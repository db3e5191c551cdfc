package interfaces

import (
	"fmt"

	"github.com/dep2p/go-datawire/pkg/types"
)

// Event 事件载体
//
// 只在反应器线程上创建后读取；处理器不得在回调返回后保留指针。
type Event struct {
	// Type 事件类型
	Type types.EventType

	// Reactor 产生事件的反应器
	Reactor Reactor

	// Connection 相关连接（可能为 nil）
	Connection Connection

	// Link 相关链路端点（可能为 nil）
	Link Link

	// Message 消息（仅 EventMessage）
	Message *types.Message

	// Err 错误（EventLinkError / 异常关闭）
	Err error

	// Context 定时任务上下文（仅 EventTimerTask）
	Context any
}

// String 返回事件摘要
func (e *Event) String() string {
	s := e.Type.String()
	if e.Link != nil {
		s += fmt.Sprintf(" link=%s", e.Link.Name())
	}
	if e.Err != nil {
		s += fmt.Sprintf(" err=%v", e.Err)
	}
	return s
}
