package container

import (
	"fmt"
	"sync"

	"github.com/dep2p/go-datawire/internal/core/event"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/types"
)

// Link 容器管理的链路
//
// 创建时绑定描述符和本端地址解析出的处理器，Start 后持有引擎链路端点的
// 引用（不拥有其生命周期）。打开前发送的消息排队，打开后按顺序发出。
//
// 对端打开时按对端声明的地址重新解析；解析出不同的处理器时改绑，
// 解析不到时保留创建时的处理器。用 WithHandler 指定的处理器不改绑。
type Link struct {
	c      *Container
	desc   types.LinkDescriptor
	pinned bool

	mu       sync.Mutex
	handler  pkgif.Handler
	state    types.LinkState
	endpoint pkgif.Link
	pending  []*types.Message
}

// ============================================================================
//                              访问器
// ============================================================================

// Name 链路名称
func (l *Link) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.endpoint != nil {
		return l.endpoint.Name()
	}
	return l.desc.Name
}

// Descriptor 链路描述符
func (l *Link) Descriptor() types.LinkDescriptor {
	return l.desc.Clone()
}

// Handler 绑定的处理器
func (l *Link) Handler() pkgif.Handler {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handler
}

// State 当前生命周期状态
func (l *Link) State() types.LinkState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Endpoint 引擎链路端点，Start 前为 nil
func (l *Link) Endpoint() pkgif.Link {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.endpoint
}

// Pending 排队等待打开的消息数
func (l *Link) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// String 返回链路摘要
func (l *Link) String() string {
	return fmt.Sprintf("%s[%s]", l.desc.String(), l.State())
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 发起建立
//
// 仅 constructed 状态有效，其余状态为空操作。容器关闭后返回
// ErrContainerClosed，链路保持 constructed。建立失败只报告给本链路的
// 处理器（EventLinkError），不返回给调用方。
func (l *Link) Start(r pkgif.Reactor) error {
	if r == nil {
		return ErrNilReactor
	}
	if l.c.Closed() {
		return ErrContainerClosed
	}
	l.mu.Lock()
	if l.state != types.LinkConstructed {
		l.mu.Unlock()
		return nil
	}
	l.setState(types.LinkStarting)
	h := l.handler
	l.mu.Unlock()

	ep, err := l.c.engine.OpenLink(l.desc, r)
	if err != nil {
		logger.Warn("链路建立请求失败", "link", l.desc.String(), "error", err)
		if l.markClosed() {
			event.Dispatch(&pkgif.Event{Type: types.EventLinkError, Reactor: r, Err: err}, h)
		}
		return nil
	}
	ep.SetHandler(h)

	l.mu.Lock()
	l.endpoint = ep
	l.mu.Unlock()
	l.c.track(ep, l)

	logger.Debug("链路开始建立", "link", ep.Name(), "host", l.desc.Host, "role", l.desc.Role)
	return nil
}

// Stop 请求关闭；幂等
//
// 未启动的链路保持 constructed；starting / open 转为 closing，
// 传输层关闭后转为 closed。可在处理器回调中调用。
func (l *Link) Stop() error {
	l.mu.Lock()
	if !l.state.Active() {
		l.mu.Unlock()
		return nil
	}
	l.setState(types.LinkClosing)
	ep := l.endpoint
	dropped := len(l.pending)
	l.pending = nil
	l.mu.Unlock()

	if dropped > 0 {
		logger.Debug("丢弃未发送的消息", "link", l.desc.String(), "count", dropped)
	}
	if ep == nil {
		l.markClosed()
		return nil
	}
	return ep.Close()
}

// Send 发送消息
//
// 链路打开前排队，打开后直接写出。
func (l *Link) Send(msg *types.Message) error {
	if !l.desc.IsSender() {
		return ErrNotSender
	}
	l.mu.Lock()
	switch l.state {
	case types.LinkConstructed, types.LinkStarting:
		l.pending = append(l.pending, msg)
		l.mu.Unlock()
		return nil
	case types.LinkOpen:
		ep := l.endpoint
		l.mu.Unlock()
		return ep.Send(msg)
	default:
		l.mu.Unlock()
		return ErrLinkClosed
	}
}

// ============================================================================
//                              状态转换（容器内部）
// ============================================================================

// setState 调用方持有 l.mu
func (l *Link) setState(to types.LinkState) bool {
	from := l.state
	if !from.CanTransition(to) {
		return false
	}
	l.state = to
	l.c.reporter.LinkTransition(from, to)
	return true
}

// opened 对端确认，返回是否由 starting 转为 open
func (l *Link) opened() bool {
	l.mu.Lock()
	if l.state != types.LinkStarting || !l.setState(types.LinkOpen) {
		l.mu.Unlock()
		return false
	}
	queue := l.pending
	l.pending = nil
	ep := l.endpoint
	l.mu.Unlock()

	for _, msg := range queue {
		if err := ep.Send(msg); err != nil {
			logger.Warn("发送排队消息失败", "link", ep.Name(), "error", err)
			return true
		}
	}
	return true
}

// rebind 对端打开时按对端声明的地址改绑处理器，返回当前处理器
func (l *Link) rebind(h pkgif.Handler) pkgif.Handler {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pinned || h == nil {
		return l.handler
	}
	l.handler = h
	if l.endpoint != nil {
		l.endpoint.SetHandler(h)
	}
	return h
}

// markClosed 转为 closed，返回是否发生了转换
func (l *Link) markClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.setState(types.LinkClosed) {
		return false
	}
	l.pending = nil
	return true
}
