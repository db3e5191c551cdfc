package datawire

import (
	"github.com/dep2p/go-datawire/internal/core/container"
	"github.com/dep2p/go-datawire/internal/core/event"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// Handler 应用处理器（任意值，按能力接口分派）
	Handler = pkgif.Handler

	// Event 事件载体
	Event = pkgif.Event

	// Message 链路上传输的消息
	Message = types.Message

	// Link 容器管理的链路
	Link = container.Link

	// LinkOption 链路创建选项
	LinkOption = container.LinkOption

	// LinkState 链路生命周期状态
	LinkState = types.LinkState

	// Task 已调度的定时任务
	Task = pkgif.Task

	// EventType 事件类型
	EventType = types.EventType
)

// 事件类型
const (
	EventReactorInit     = types.EventReactorInit
	EventReactorQuiesced = types.EventReactorQuiesced
	EventReactorFinal    = types.EventReactorFinal
	EventTimerTask       = types.EventTimerTask
	EventLinkRemoteOpen  = types.EventLinkRemoteOpen
	EventLinkRemoteClose = types.EventLinkRemoteClose
	EventLinkError       = types.EventLinkError
	EventMessage         = types.EventMessage
	EventTransportClosed = types.EventTransportClosed
)

// 链路状态
const (
	LinkConstructed = types.LinkConstructed
	LinkStarting    = types.LinkStarting
	LinkOpen        = types.LinkOpen
	LinkClosing     = types.LinkClosing
	LinkClosed      = types.LinkClosed
)

// 链路创建选项
var (
	// WithLinkName 指定链路名称
	WithLinkName = container.WithName

	// WithLinkHandler 直接绑定处理器
	WithLinkHandler = container.WithHandler

	// WithLinkOption 追加协议选项
	WithLinkOption = container.WithOption
)

// NewMessage 创建消息
func NewMessage(body []byte) *Message {
	return types.NewMessage(body)
}

// NewTextMessage 创建文本消息
func NewTextMessage(text string) *Message {
	return types.NewTextMessage(text)
}

// ════════════════════════════════════════════════════════════════════════════
//                              处理器适配
// ════════════════════════════════════════════════════════════════════════════

// Processor 消息处理函数
//
// 只处理 Message 事件，可直接作为处理器注册或绑定到链路。
type Processor func(ev *Event, msg *Message)

// OnMessage 实现 MessageHandler
func (p Processor) OnMessage(ev *Event) {
	p(ev, ev.Message)
}

// HandlerFunc 接收全部事件的处理函数
type HandlerFunc = event.Func

// Handlers 按顺序把事件分派给多个处理器
type Handlers = event.Chain

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点状态
type NodeState int

const (
	// StateIdle 已创建，未启动
	StateIdle NodeState = iota

	// StateRunning 运行中
	StateRunning

	// StateStopped 已停止（不可重新启动）
	StateStopped
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
