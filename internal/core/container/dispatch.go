package container

import (
	"github.com/dep2p/go-datawire/internal/core/event"
	"github.com/dep2p/go-datawire/internal/core/routing"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/types"
)

// HandleEvent 反应器全局处理器入口
//
// 容器先分派，握手参与者随后处理同一事件。
func (c *Container) HandleEvent(ev *pkgif.Event) {
	if ev == nil {
		return
	}
	c.reporter.ObserveDispatch(ev.Type)

	switch ev.Type {
	case types.EventReactorInit:
		c.onReactorInit(ev)
	case types.EventReactorQuiesced:
		c.onReactorQuiesced(ev)
	case types.EventReactorFinal:
		c.broadcast(ev)
	case types.EventConnectionBound:
		if ev.Connection != nil {
			logger.Debug("连接已建立", "remote", ev.Connection.RemoteAddr())
		}
	case types.EventLinkRemoteOpen:
		c.onLinkRemoteOpen(ev)
	case types.EventLinkRemoteClose:
		c.onLinkRemoteClose(ev)
	case types.EventLinkError:
		c.onLinkError(ev)
	case types.EventMessage:
		c.onMessage(ev)
	case types.EventTransportClosed:
		c.onTransportClosed(ev)
	}

	for _, h := range c.handlers {
		event.Dispatch(ev, h)
	}
}

// ============================================================================
//                              反应器事件
// ============================================================================

func (c *Container) onReactorInit(ev *pkgif.Event) {
	if c.cfg.AutoStart {
		if err := c.Start(ev.Reactor); err != nil {
			logger.Warn("自动启动链路失败", "container", c.id, "error", err)
		}
	}
	c.broadcast(ev)
}

// onReactorQuiesced 广播给根处理器和全部已注册处理器，每个处理器一次
func (c *Container) onReactorQuiesced(ev *pkgif.Event) {
	c.reporter.Quiesced()
	c.broadcast(ev)
}

func (c *Container) broadcast(ev *pkgif.Event) {
	for _, h := range c.table.Broadcast() {
		event.Dispatch(ev, h)
	}
}

// ============================================================================
//                              链路事件
// ============================================================================

// onLinkRemoteOpen 绑定处理器并分派
//
// 按对端声明的地址解析：本端为发送端时取对端源地址，为接收端时取对端
// 目标地址。托管链路在对端声明了地址且解析到处理器时改绑（WithHandler
// 指定的除外），否则沿用创建时的处理器。
func (c *Container) onLinkRemoteOpen(ev *pkgif.Event) {
	ep := ev.Link
	if ep == nil {
		return
	}
	if l := c.lookup(ep); l != nil {
		if !l.opened() {
			logger.Debug("链路已停止，忽略对端打开", "link", ep.Name(), "state", l.State())
			return
		}
		var h pkgif.Handler
		if !l.pinned {
			if addr, ok := remoteAddress(ep); ok {
				h = c.resolveRemote(addr, true)
			}
		}
		event.Dispatch(ev, l.rebind(h))
		return
	}

	addr, ok := remoteAddress(ep)
	h := c.resolveRemote(addr, ok)

	if h == nil {
		if c.cfg.RejectUnrouted {
			logger.Info("没有处理器，拒绝链路", "link", ep.Name(), "address", addr)
			if err := ep.CloseWithError(RejectNoRoute); err != nil {
				logger.Debug("拒绝链路失败", "link", ep.Name(), "error", err)
			}
			return
		}
		logger.Info("没有处理器，链路不分派", "link", ep.Name(), "address", addr)
		return
	}

	ep.SetHandler(h)
	logger.Debug("链路已绑定处理器", "link", ep.Name(), "address", addr)
	event.Dispatch(ev, h)
}

// remoteAddress 对端声明的地址：本端为发送端时取源地址，否则取目标地址
func remoteAddress(ep pkgif.Link) (string, bool) {
	if ep.IsSender() {
		return ep.RemoteSource()
	}
	return ep.RemoteTarget()
}

// resolveRemote 解析对端声明的地址，未声明（declared 为 false）时直接取根处理器
func (c *Container) resolveRemote(addr string, declared bool) pkgif.Handler {
	var (
		h      pkgif.Handler
		result routing.Result
	)
	if declared {
		h, _, result = c.table.Match(addr)
	} else {
		h, result = c.table.ResolveAbsent()
	}
	c.reporter.ObserveResolve(result.String())
	return h
}

func (c *Container) onLinkRemoteClose(ev *pkgif.Event) {
	ep := ev.Link
	if ep == nil {
		return
	}
	l := c.lookup(ep)
	if l == nil {
		event.Dispatch(ev, ep.Handler())
		return
	}
	event.Dispatch(ev, l.Handler())
	if err := l.Stop(); err != nil {
		logger.Debug("关闭链路失败", "link", ep.Name(), "error", err)
	}
}

// onLinkError 建立失败只报告给链路绑定的处理器
func (c *Container) onLinkError(ev *pkgif.Event) {
	l := c.lookup(ev.Link)
	if l == nil {
		logger.Warn("链路建立失败", "event", ev.String())
		return
	}
	if !l.markClosed() {
		return
	}
	if h := l.Handler(); h == nil || !event.Dispatch(ev, h) {
		logger.Warn("链路建立失败", "link", l.desc.String(), "error", ev.Err)
	}
}

func (c *Container) onMessage(ev *pkgif.Event) {
	var h pkgif.Handler
	if l := c.lookup(ev.Link); l != nil {
		h = l.Handler()
	} else if ev.Link != nil {
		h = ev.Link.Handler()
	}
	if !event.Dispatch(ev, h) {
		logger.Debug("消息没有处理器，丢弃", "event", ev.String())
	}
}

// onTransportClosed 释放连接，并把连接上的托管链路转为 closed
//
// Free 幂等；连接已被释放时不重复计数。
func (c *Container) onTransportClosed(ev *pkgif.Event) {
	conn := ev.Connection
	if conn == nil {
		return
	}
	freed := conn.Freed()
	conn.Free()
	if !freed {
		c.reporter.ConnectionFreed()
	}

	for _, l := range c.onConnection(conn) {
		if l.markClosed() {
			event.Dispatch(ev, l.Handler())
		}
	}
}
