package transport

import (
	"context"
	"fmt"
	"maps"
	"net"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-datawire/internal/core/metrics"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/lib/log"
	"github.com/dep2p/go-datawire/pkg/types"
)

var logger = log.Logger("core/transport")

// Engine 链路协议引擎
type Engine struct {
	cfg      Config
	reporter metrics.Reporter

	mu        sync.Mutex
	conns     map[string]*Connection
	listeners map[*Listener]struct{}
	closed    bool
}

var _ pkgif.Engine = (*Engine)(nil)

// NewEngine 创建引擎，reporter 为 nil 时不记录指标
func NewEngine(cfg Config, reporter metrics.Reporter) *Engine {
	if reporter == nil {
		reporter = metrics.Nop{}
	}
	if cfg.MaxFrameSize <= 0 {
		cfg.MaxFrameSize = DefaultConfig().MaxFrameSize
	}
	return &Engine{
		cfg:       cfg,
		reporter:  reporter,
		conns:     make(map[string]*Connection),
		listeners: make(map[*Listener]struct{}),
	}
}

// ============================================================================
//                              出站链路
// ============================================================================

// OpenLink 按描述符发起链路建立，不阻塞
func (e *Engine) OpenLink(desc types.LinkDescriptor, r pkgif.Reactor) (pkgif.Link, error) {
	if desc.Host == "" {
		return nil, fmt.Errorf("%w: descriptor has no host", types.ErrInvalidLinkSpec)
	}

	name := desc.Name
	if name == "" {
		name = uuid.NewString()
	}
	ctx, cancel := context.WithCancel(context.Background())
	conn := newConnection(e, r, true, desc.Host)
	conn.cancel = cancel
	// 拨号途中的连接也登记，Close 时一并取消
	if !e.track(conn) {
		cancel()
		return nil, ErrEngineClosed
	}
	l := &Link{
		name:    name,
		role:    desc.Role,
		host:    desc.Host,
		options: maps.Clone(desc.Options),
		conn:    conn,
		engine:  e,
		state:   types.LocalActive | types.RemoteUninit,
		source:  strPtr(desc.Source),
		target:  strPtr(desc.Target),
		cancel:  cancel,
	}
	conn.addLink(l)

	logger.Debug("发起链路建立", "link", name, "host", desc.Host, "role", desc.Role)
	go e.establish(ctx, l)
	return l, nil
}

// establish 拨号、握手、发送 attach 并等待对端回复
func (e *Engine) establish(ctx context.Context, l *Link) {
	c := l.conn

	dialer := net.Dialer{Timeout: e.cfg.DialTimeout}
	nc, err := dialer.DialContext(ctx, "tcp", l.host)
	if err != nil {
		e.establishFailed(ctx, l, fmt.Errorf("dial %s: %w", l.host, err))
		return
	}

	sess, err := e.upgrade(ctx, nc, false)
	if err != nil {
		_ = nc.Close()
		e.establishFailed(ctx, l, err)
		return
	}
	if !c.bind(nc, sess) {
		_ = sess.Close()
		return
	}
	c.emit(&pkgif.Event{Type: types.EventConnectionBound})

	st, err := sess.OpenStream()
	if err != nil {
		e.establishFailed(ctx, l, fmt.Errorf("open stream: %w", err))
		return
	}
	if !l.setStream(st) {
		_ = st.Close()
		return
	}

	attach := &Frame{
		Type:    FrameAttach,
		Name:    l.name,
		Role:    l.role,
		Source:  strPtr(l.Source()),
		Target:  strPtr(l.Target()),
		Options: l.options,
	}
	if _, err := l.write(attach); err != nil {
		e.establishFailed(ctx, l, fmt.Errorf("send attach: %w", err))
		return
	}

	reply, _, err := readFrame(st, e.cfg.MaxFrameSize)
	if err != nil {
		e.establishFailed(ctx, l, fmt.Errorf("read attach: %w", err))
		return
	}
	switch reply.Type {
	case FrameAttach:
		if l.remoteAttached(reply) {
			l.readLoop()
		}
	case FrameDetach:
		e.establishFailed(ctx, l, &DetachError{Link: l.name, Reason: reply.Error})
	default:
		e.establishFailed(ctx, l, fmt.Errorf("%w: %s", ErrUnexpectedFrame, reply.Type))
	}
}

// establishFailed 报告建立失败
//
// 链路已被本端停止时不投递 LinkError，只关闭连接。
func (e *Engine) establishFailed(ctx context.Context, l *Link, err error) {
	l.mu.Lock()
	canceled := ctx.Err() != nil || l.state.Is(types.LocalClosed)
	l.state = types.LocalClosed | types.RemoteClosed
	l.mu.Unlock()

	if !canceled {
		logger.Debug("链路建立失败", "link", l.name, "error", err)
		l.conn.emit(&pkgif.Event{Type: types.EventLinkError, Link: l, Err: err})
	}
	l.conn.removeLink(l)
	l.conn.fail(err)
}

// ============================================================================
//                              入站连接
// ============================================================================

// Listen 在 addr 上接受入站连接
func (e *Engine) Listen(addr string, r pkgif.Reactor) (pkgif.Listener, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	l := newListener(e, ln, r)
	e.listeners[l] = struct{}{}
	go l.serve()

	logger.Info("开始监听", "addr", ln.Addr().String())
	return l, nil
}

// handleInbound 处理一个入站连接
func (e *Engine) handleInbound(ctx context.Context, nc net.Conn, r pkgif.Reactor) {
	sess, err := e.upgrade(ctx, nc, true)
	if err != nil {
		logger.Debug("入站握手失败", "remote", nc.RemoteAddr().String(), "error", err)
		_ = nc.Close()
		return
	}
	c := newConnection(e, r, false, nc.RemoteAddr().String())
	if !c.bind(nc, sess) {
		_ = sess.Close()
		return
	}
	c.emit(&pkgif.Event{Type: types.EventConnectionBound})

	for {
		st, err := sess.AcceptStream()
		if err != nil {
			return
		}
		go e.handleStream(c, st)
	}
}

// handleStream 读取对端的 attach 并创建服务端链路
func (e *Engine) handleStream(c *Connection, st net.Conn) {
	f, _, err := readFrame(st, e.cfg.MaxFrameSize)
	if err != nil || f.Type != FrameAttach {
		logger.Debug("入站流未以 attach 开始", "conn", c.id, "error", err)
		_ = st.Close()
		return
	}

	name := f.Name
	if name == "" {
		name = uuid.NewString()
	}
	l := &Link{
		name:         name,
		role:         f.Role.Opposite(),
		options:      maps.Clone(f.Options),
		conn:         c,
		engine:       e,
		state:        types.LocalUninit | types.RemoteActive,
		remoteSource: f.Source,
		remoteTarget: f.Target,
		stream:       st,
	}
	c.addLink(l)
	c.emit(&pkgif.Event{Type: types.EventLinkRemoteOpen, Link: l})
	l.readLoop()
}

// ============================================================================
//                              连接管理
// ============================================================================

// track 登记连接；引擎已关闭时返回 false
func (e *Engine) track(c *Connection) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.conns[c.id] = c
	return true
}

func (e *Engine) untrack(c *Connection) {
	e.mu.Lock()
	delete(e.conns, c.id)
	e.mu.Unlock()
}

func (e *Engine) removeListener(l *Listener) {
	e.mu.Lock()
	delete(e.listeners, l)
	e.mu.Unlock()
}

// ConnCount 返回活跃连接数，包括拨号或握手途中的出站连接
func (e *Engine) ConnCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.conns)
}

// ListenAddrs 返回实际监听地址
func (e *Engine) ListenAddrs() []net.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]net.Addr, 0, len(e.listeners))
	for l := range e.listeners {
		out = append(out, l.Addr())
	}
	return out
}

// Close 关闭全部监听器和连接
//
// 拨号或握手途中的出站连接被取消，不投递 LinkError，只投递一次 TransportClosed。
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	listeners := make([]*Listener, 0, len(e.listeners))
	for l := range e.listeners {
		listeners = append(listeners, l)
	}
	conns := make([]*Connection, 0, len(e.conns))
	for _, c := range e.conns {
		conns = append(conns, c)
	}
	e.mu.Unlock()

	var err error
	for _, l := range listeners {
		err = multierr.Append(err, l.Close())
	}

	var g errgroup.Group
	for _, c := range conns {
		g.Go(c.close)
	}
	err = multierr.Append(err, g.Wait())

	logger.Debug("引擎已关闭", "listeners", len(listeners), "conns", len(conns))
	return err
}
