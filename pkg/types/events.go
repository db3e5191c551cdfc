package types

import "fmt"

// ============================================================================
//                              EventType - 事件类型
// ============================================================================

// EventType 协议引擎和反应器产生的事件类型
type EventType int

const (
	// EventReactorInit 反应器启动，首个任务之前触发一次
	EventReactorInit EventType = iota + 1
	// EventReactorQuiesced 反应器没有可立即运行的工作
	EventReactorQuiesced
	// EventReactorFinal 反应器退出
	EventReactorFinal
	// EventTimerTask 定时任务到期
	EventTimerTask
	// EventConnectionBound 连接建立并完成握手
	EventConnectionBound
	// EventLinkRemoteOpen 对端打开了链路
	EventLinkRemoteOpen
	// EventLinkRemoteClose 对端关闭了链路
	EventLinkRemoteClose
	// EventLinkError 链路建立失败
	EventLinkError
	// EventMessage 链路上收到消息
	EventMessage
	// EventTransportClosed 传输层关闭
	EventTransportClosed
)

// String 返回事件类型的字符串表示
func (t EventType) String() string {
	switch t {
	case EventReactorInit:
		return "reactor_init"
	case EventReactorQuiesced:
		return "reactor_quiesced"
	case EventReactorFinal:
		return "reactor_final"
	case EventTimerTask:
		return "timer_task"
	case EventConnectionBound:
		return "connection_bound"
	case EventLinkRemoteOpen:
		return "link_remote_open"
	case EventLinkRemoteClose:
		return "link_remote_close"
	case EventLinkError:
		return "link_error"
	case EventMessage:
		return "message"
	case EventTransportClosed:
		return "transport_closed"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// AllEventTypes 返回所有事件类型（用于指标预注册）
func AllEventTypes() []EventType {
	return []EventType{
		EventReactorInit,
		EventReactorQuiesced,
		EventReactorFinal,
		EventTimerTask,
		EventConnectionBound,
		EventLinkRemoteOpen,
		EventLinkRemoteClose,
		EventLinkError,
		EventMessage,
		EventTransportClosed,
	}
}
