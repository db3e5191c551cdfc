package transport

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/yamux"

	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/types"
)

// Connection 协议连接
//
// 出站连接在 OpenLink 时创建，拨号与握手完成后绑定会话；
// 入站连接在握手完成后创建。连接关闭时向反应器投递一次
// EventTransportClosed。
type Connection struct {
	id       string
	engine   *Engine
	reactor  pkgif.Reactor
	outbound bool

	mu       sync.Mutex
	remote   string
	netConn  net.Conn
	session  *yamux.Session
	shutdown bool
	links    map[string]*Link

	// cancel 取消出站连接的拨号与握手
	cancel context.CancelFunc

	freed     atomic.Bool
	closeOnce sync.Once
}

var _ pkgif.Connection = (*Connection)(nil)

func newConnection(e *Engine, r pkgif.Reactor, outbound bool, remote string) *Connection {
	return &Connection{
		id:       uuid.NewString(),
		engine:   e,
		reactor:  r,
		outbound: outbound,
		remote:   remote,
		links:    make(map[string]*Link),
	}
}

// ID 连接 ID
func (c *Connection) ID() string { return c.id }

// Outbound 是否由本端发起
func (c *Connection) Outbound() bool { return c.outbound }

// RemoteAddr 对端地址
func (c *Connection) RemoteAddr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote
}

// Freed 是否已释放
func (c *Connection) Freed() bool { return c.freed.Load() }

// Free 释放连接资源；幂等
func (c *Connection) Free() {
	if !c.freed.CompareAndSwap(false, true) {
		return
	}
	_ = c.close()
}

// Links 返回连接上的链路
func (c *Connection) Links() []*Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Link, 0, len(c.links))
	for _, l := range c.links {
		out = append(out, l)
	}
	return out
}

// bind 绑定已建立的会话
//
// 连接已被关闭（例如链路在建立途中被停止）或引擎已关闭时返回 false，
// 调用方负责关闭会话。
func (c *Connection) bind(nc net.Conn, sess *yamux.Session) bool {
	if !c.engine.track(c) {
		return false
	}
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return false
	}
	c.netConn = nc
	c.session = sess
	c.remote = nc.RemoteAddr().String()
	c.mu.Unlock()

	go func() {
		<-sess.CloseChan()
		c.transportClosed(nil)
	}()
	return true
}

// close 关闭连接
//
// 已绑定会话时由会话的关闭通知触发 TransportClosed；
// 未绑定时（拨号未完成）取消建立并直接触发。
func (c *Connection) close() error {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return nil
	}
	c.shutdown = true
	sess := c.session
	c.mu.Unlock()

	if sess == nil {
		if c.cancel != nil {
			c.cancel()
		}
		c.transportClosed(nil)
		return nil
	}
	return sess.Close()
}

// fail 以错误关闭连接，err 随 TransportClosed 投递（仅未绑定会话时）
func (c *Connection) fail(err error) {
	c.mu.Lock()
	c.shutdown = true
	sess := c.session
	c.mu.Unlock()

	if sess != nil {
		_ = sess.Close()
		return
	}
	c.transportClosed(err)
}

// transportClosed 投递 TransportClosed，每个连接只投递一次
func (c *Connection) transportClosed(err error) {
	c.closeOnce.Do(func() {
		c.engine.untrack(c)
		logger.Debug("连接已关闭", "conn", c.id, "remote", c.RemoteAddr())
		c.reactor.Emit(&pkgif.Event{
			Type:       types.EventTransportClosed,
			Reactor:    c.reactor,
			Connection: c,
			Err:        err,
		})
	})
}

func (c *Connection) addLink(l *Link) {
	c.mu.Lock()
	c.links[l.name] = l
	c.mu.Unlock()
}

func (c *Connection) removeLink(l *Link) {
	c.mu.Lock()
	if c.links[l.name] == l {
		delete(c.links, l.name)
	}
	c.mu.Unlock()
}

func (c *Connection) emit(ev *pkgif.Event) {
	ev.Reactor = c.reactor
	ev.Connection = c
	c.reactor.Emit(ev)
}
