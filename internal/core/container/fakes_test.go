package container

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dep2p/go-datawire/internal/core/routing"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/types"
)

// ============================================================================
//                              测试替身
// ============================================================================

type fakeConn struct {
	id    string
	frees int
}

func (c *fakeConn) ID() string         { return c.id }
func (c *fakeConn) RemoteAddr() string { return "fake:" + c.id }
func (c *fakeConn) Outbound() bool     { return true }
func (c *fakeConn) Freed() bool        { return c.frees > 0 }
func (c *fakeConn) Free()              { c.frees++ }

type fakeLink struct {
	name         string
	role         types.Role
	conn         *fakeConn
	state        types.EndpointState
	remoteSource *string
	remoteTarget *string
	handler      pkgif.Handler

	opens  int
	closes int
	reason string
	sent   []*types.Message
}

func (l *fakeLink) Name() string                  { return l.name }
func (l *fakeLink) Role() types.Role              { return l.role }
func (l *fakeLink) IsSender() bool                { return l.role == types.RoleSender }
func (l *fakeLink) Connection() pkgif.Connection  { return l.conn }
func (l *fakeLink) Source() string                { return "" }
func (l *fakeLink) Target() string                { return "" }
func (l *fakeLink) State() types.EndpointState    { return l.state }
func (l *fakeLink) Handler() pkgif.Handler        { return l.handler }
func (l *fakeLink) SetHandler(h pkgif.Handler)    { l.handler = h }
func (l *fakeLink) RemoteSource() (string, bool)  { return deref(l.remoteSource) }
func (l *fakeLink) RemoteTarget() (string, bool)  { return deref(l.remoteTarget) }
func (l *fakeLink) CloseWithError(r string) error { l.reason = r; return l.Close() }
func (l *fakeLink) Send(msg *types.Message) error { l.sent = append(l.sent, msg); return nil }

func (l *fakeLink) Open() error {
	l.opens++
	l.state = l.state.WithLocal(types.LocalActive)
	return nil
}

func (l *fakeLink) Close() error {
	if l.state.Is(types.LocalClosed) {
		return nil
	}
	l.closes++
	l.state = l.state.WithLocal(types.LocalClosed)
	return nil
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func ptr(s string) *string { return &s }

// inbound 创建对端发起的链路
func inbound(role types.Role, source, target *string) *fakeLink {
	return &fakeLink{
		name:         "in",
		role:         role,
		conn:         &fakeConn{id: "in"},
		state:        types.LocalUninit | types.RemoteActive,
		remoteSource: source,
		remoteTarget: target,
	}
}

type fakeEngine struct {
	mu     sync.Mutex
	opened []*fakeLink
	fail   map[string]error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{fail: make(map[string]error)}
}

func (e *fakeEngine) OpenLink(desc types.LinkDescriptor, _ pkgif.Reactor) (pkgif.Link, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.fail[desc.Host]; err != nil {
		return nil, err
	}
	name := desc.Name
	if name == "" {
		name = fmt.Sprintf("link-%d", len(e.opened))
	}
	l := &fakeLink{
		name:  name,
		role:  desc.Role,
		conn:  &fakeConn{id: name},
		state: types.LocalActive | types.RemoteUninit,
	}
	e.opened = append(e.opened, l)
	return l, nil
}

func (e *fakeEngine) Listen(string, pkgif.Reactor) (pkgif.Listener, error) {
	return nil, errors.New("fake engine: listen unsupported")
}

func (e *fakeEngine) Close() error { return nil }

// inlineReactor 在调用方 goroutine 上执行投递的反应器替身
type inlineReactor struct{}

func (inlineReactor) Schedule(time.Duration, pkgif.Handler) pkgif.Task { return nil }
func (inlineReactor) Post(fn func())                                   { fn() }
func (inlineReactor) Emit(*pkgif.Event)                              {}
func (inlineReactor) Now() time.Time { return time.Now() }
func (inlineReactor) Stop()                                          {}

// recorder 记录收到的全部事件
type recorder struct {
	name   string
	events []*pkgif.Event
}

func (r *recorder) HandleEvent(ev *pkgif.Event) { r.events = append(r.events, ev) }

func (r *recorder) count(t types.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func newTestContainer(root pkgif.Handler) (*Container, *fakeEngine) {
	e := newFakeEngine()
	return New(DefaultConfig(), routing.NewTable(root), e, nil), e
}
