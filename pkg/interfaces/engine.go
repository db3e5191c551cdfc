package interfaces

import (
	"net"

	"github.com/dep2p/go-datawire/pkg/types"
)

// Engine 协议引擎适配器
//
// 提供连接/链路原语，并把线上事件通过 Reactor.Emit 送入反应器。
type Engine interface {
	// OpenLink 按描述符发起链路建立，不阻塞
	//
	// 建立结果以事件形式异步到达：成功为 EventLinkRemoteOpen，
	// 失败为 EventLinkError。
	OpenLink(desc types.LinkDescriptor, r Reactor) (Link, error)

	// Listen 在 addr 上接受入站连接
	Listen(addr string, r Reactor) (Listener, error)

	// Close 关闭引擎持有的全部连接和监听器
	Close() error
}

// Listener 入站监听器
type Listener interface {
	Addr() net.Addr
	Close() error
}

// Connection 协议连接
type Connection interface {
	// ID 连接 ID
	ID() string

	// RemoteAddr 对端地址
	RemoteAddr() string

	// Outbound 是否由本端发起
	Outbound() bool

	// Free 释放连接资源；幂等，重复调用不报错
	Free()

	// Freed 是否已释放
	Freed() bool
}

// Link 协议链路端点
type Link interface {
	// Name 链路名称
	Name() string

	// Role 本端方向
	Role() types.Role

	// IsSender 本端是否为发送端
	IsSender() bool

	// Connection 所属连接
	Connection() Connection

	// Source 本端声明的源地址
	Source() string

	// Target 本端声明的目标地址
	Target() string

	// RemoteSource 对端声明的源地址；对端未声明时 ok 为 false
	RemoteSource() (addr string, ok bool)

	// RemoteTarget 对端声明的目标地址；对端未声明时 ok 为 false
	RemoteTarget() (addr string, ok bool)

	// State 端点状态
	State() types.EndpointState

	// Open 在本端打开链路（接受对端打开）
	Open() error

	// Close 关闭链路；幂等
	Close() error

	// CloseWithError 以错误原因关闭（拒绝）链路
	CloseWithError(reason string) error

	// Send 发送消息，仅发送端且已打开时可用
	Send(msg *types.Message) error

	// Handler 绑定的处理器
	Handler() Handler

	// SetHandler 绑定处理器
	SetHandler(h Handler)
}
