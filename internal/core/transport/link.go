package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net"
	"sync"

	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/types"
)

// Link 协议链路端点
type Link struct {
	name    string
	role    types.Role
	host    string
	options map[string]string
	conn    *Connection
	engine  *Engine

	mu           sync.Mutex
	state        types.EndpointState
	source       *string
	target       *string
	remoteSource *string
	remoteTarget *string
	stream       net.Conn
	cancel       context.CancelFunc
	handler      pkgif.Handler

	writeMu sync.Mutex
}

var _ pkgif.Link = (*Link)(nil)

// ============================================================================
//                              访问器
// ============================================================================

// Name 链路名称
func (l *Link) Name() string { return l.name }

// Role 本端方向
func (l *Link) Role() types.Role { return l.role }

// IsSender 本端是否为发送端
func (l *Link) IsSender() bool { return l.role == types.RoleSender }

// Connection 所属连接
func (l *Link) Connection() pkgif.Connection { return l.conn }

// Options 链路选项
func (l *Link) Options() map[string]string { return maps.Clone(l.options) }

// Source 本端声明的源地址
func (l *Link) Source() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return deref(l.source)
}

// Target 本端声明的目标地址
func (l *Link) Target() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return deref(l.target)
}

// RemoteSource 对端声明的源地址
func (l *Link) RemoteSource() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.remoteSource == nil {
		return "", false
	}
	return *l.remoteSource, true
}

// RemoteTarget 对端声明的目标地址
func (l *Link) RemoteTarget() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.remoteTarget == nil {
		return "", false
	}
	return *l.remoteTarget, true
}

// State 端点状态
func (l *Link) State() types.EndpointState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Handler 绑定的处理器
func (l *Link) Handler() pkgif.Handler {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handler
}

// SetHandler 绑定处理器
func (l *Link) SetHandler(h pkgif.Handler) {
	l.mu.Lock()
	l.handler = h
	l.mu.Unlock()
}

// String 返回链路摘要
func (l *Link) String() string {
	return fmt.Sprintf("%s(%s %s)", l.name, l.role, l.State())
}

// ============================================================================
//                              本端操作
// ============================================================================

// Open 在本端打开链路
//
// 用于接受对端打开的入站链路：本端地址镜像对端声明的地址并回复 attach。
// 出站链路在 OpenLink 时已打开，再次调用为空操作。
func (l *Link) Open() error {
	l.mu.Lock()
	if l.state.Is(types.LocalClosed) {
		l.mu.Unlock()
		return ErrLinkClosed
	}
	if !l.state.Is(types.LocalUninit) {
		l.mu.Unlock()
		return nil
	}
	l.source, l.target = l.remoteSource, l.remoteTarget
	l.state = l.state.WithLocal(types.LocalActive)
	reply := &Frame{
		Type:   FrameAttach,
		Name:   l.name,
		Role:   l.role,
		Source: l.source,
		Target: l.target,
	}
	l.mu.Unlock()

	if _, err := l.write(reply); err != nil {
		return fmt.Errorf("send attach: %w", err)
	}
	return nil
}

// Close 关闭链路；幂等
func (l *Link) Close() error {
	return l.close("")
}

// CloseWithError 以错误原因关闭（拒绝）链路
func (l *Link) CloseWithError(reason string) error {
	return l.close(reason)
}

func (l *Link) close(reason string) error {
	l.mu.Lock()
	if l.state.Is(types.LocalClosed) {
		l.mu.Unlock()
		return nil
	}
	l.state = l.state.WithLocal(types.LocalClosed)
	st, cancel := l.stream, l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if st != nil {
		if _, err := l.write(&Frame{Type: FrameDetach, Name: l.name, Error: reason}); err != nil {
			logger.Debug("发送 detach 失败", "link", l.name, "error", err)
		}
		_ = st.Close()
	}
	l.conn.removeLink(l)
	if l.conn.outbound {
		_ = l.conn.close()
	}
	l.engine.reporter.LinkClosed(l.name)
	return nil
}

// Send 发送消息
func (l *Link) Send(msg *types.Message) error {
	if msg == nil {
		return errors.New("transport: nil message")
	}
	if !l.IsSender() {
		return ErrNotSender
	}
	l.mu.Lock()
	state := l.state
	l.mu.Unlock()
	if state.Is(types.LocalClosed) {
		return ErrLinkClosed
	}
	if !state.Is(types.LocalActive | types.RemoteActive) {
		return ErrNotOpen
	}

	n, err := l.write(&Frame{Type: FrameTransfer, Message: msg})
	if err != nil {
		return fmt.Errorf("send transfer: %w", err)
	}
	l.engine.reporter.LogSent(l.name, int64(n))
	return nil
}

func (l *Link) write(f *Frame) (int, error) {
	l.mu.Lock()
	st := l.stream
	l.mu.Unlock()
	if st == nil {
		return 0, ErrNotOpen
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	return writeFrame(st, f, l.engine.cfg.MaxFrameSize)
}

// ============================================================================
//                              线上事件
// ============================================================================

// setStream 绑定流；链路已在本端关闭时返回 false
func (l *Link) setStream(st net.Conn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Is(types.LocalClosed) {
		return false
	}
	l.stream = st
	return true
}

// remoteAttached 处理对端的 attach
//
// 链路已在本端关闭时不投递事件。
func (l *Link) remoteAttached(f *Frame) bool {
	l.mu.Lock()
	if l.state.Is(types.LocalClosed) {
		l.mu.Unlock()
		return false
	}
	l.remoteSource, l.remoteTarget = f.Source, f.Target
	l.state = l.state.WithRemote(types.RemoteActive)
	l.mu.Unlock()

	l.conn.emit(&pkgif.Event{Type: types.EventLinkRemoteOpen, Link: l})
	return true
}

// readLoop 读取 transfer / detach 帧直到流结束
func (l *Link) readLoop() {
	l.mu.Lock()
	st := l.stream
	l.mu.Unlock()

	for {
		f, n, err := readFrame(st, l.engine.cfg.MaxFrameSize)
		if err != nil {
			l.streamEnded(err)
			return
		}
		switch f.Type {
		case FrameTransfer:
			if f.Message == nil {
				continue
			}
			l.engine.reporter.LogRecv(l.name, int64(n))
			l.conn.emit(&pkgif.Event{Type: types.EventMessage, Link: l, Message: f.Message})
		case FrameDetach:
			l.remoteDetached(f)
			return
		default:
			logger.Debug("忽略意外的帧", "link", l.name, "type", f.Type)
		}
	}
}

func (l *Link) remoteDetached(f *Frame) {
	l.mu.Lock()
	l.state = l.state.WithRemote(types.RemoteClosed)
	closed := l.state.Is(types.LocalClosed)
	l.mu.Unlock()
	if closed {
		return
	}

	var err error
	if f.Error != "" {
		err = &DetachError{Link: l.name, Reason: f.Error}
	}
	l.conn.emit(&pkgif.Event{Type: types.EventLinkRemoteClose, Link: l, Err: err})
}

func (l *Link) streamEnded(err error) {
	l.mu.Lock()
	l.state = l.state.WithRemote(types.RemoteClosed)
	closed := l.state.Is(types.LocalClosed)
	l.mu.Unlock()
	if closed {
		return
	}
	if !errors.Is(err, io.EOF) {
		logger.Debug("链路流中断", "link", l.name, "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
