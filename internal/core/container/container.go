package container

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dep2p/go-datawire/internal/core/linkspec"
	"github.com/dep2p/go-datawire/internal/core/metrics"
	"github.com/dep2p/go-datawire/internal/core/routing"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/lib/log"
	"github.com/dep2p/go-datawire/pkg/types"
)

var logger = log.Logger("core/container")

// Container 地址路由容器
//
// 拥有路由表、按创建顺序排列的链路集合和握手参与者。
// 作为反应器的全局处理器使用（实现 pkgif.EventHandler）。
type Container struct {
	id       string
	cfg      Config
	table    *routing.Table
	engine   pkgif.Engine
	reporter metrics.Reporter
	handlers []pkgif.Handler

	mu      sync.Mutex
	links   []*Link
	managed map[pkgif.Link]*Link
	reactor pkgif.Reactor
	closed  bool
}

var _ pkgif.EventHandler = (*Container)(nil)

// New 创建容器
//
// table 为 nil 时创建没有根处理器的空路由表；reporter 为 nil 时不记录指标。
func New(cfg Config, table *routing.Table, engine pkgif.Engine, reporter metrics.Reporter) *Container {
	if table == nil {
		table = routing.NewTable(nil)
	}
	if reporter == nil {
		reporter = metrics.Nop{}
	}
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Container{
		id:       id,
		cfg:      cfg,
		table:    table,
		engine:   engine,
		reporter: reporter,
		handlers: []pkgif.Handler{Handshaker{}},
		managed:  make(map[pkgif.Link]*Link),
	}
}

// ID 容器标识
func (c *Container) ID() string {
	return c.id
}

// Table 路由表
func (c *Container) Table() *routing.Table {
	return c.table
}

// ============================================================================
//                              路由
// ============================================================================

// Register 注册或覆盖地址上的处理器（后写者胜）
func (c *Container) Register(addr string, h pkgif.Handler) error {
	return c.table.Register(addr, h)
}

// Resolve 解析地址对应的处理器，没有匹配且没有根处理器时返回 nil
func (c *Container) Resolve(addr string) pkgif.Handler {
	h, _, result := c.table.Match(addr)
	c.reporter.ObserveResolve(result.String())
	return h
}

// Root 根处理器
func (c *Container) Root() pkgif.Handler {
	return c.table.Root()
}

// ============================================================================
//                              链路集合
// ============================================================================

// CreateLink 解析链路描述、绑定处理器并加入链路集合
//
// 处理器按本端地址解析（发送端为源地址，接收端为目标地址）。
// 不接触反应器；描述无效时不修改链路集合。
func (c *Container) CreateLink(spec string, opts ...LinkOption) (*Link, error) {
	var o linkOptions
	for _, opt := range opts {
		opt(&o)
	}
	extra := o.extra
	if o.name != "" {
		if extra == nil {
			extra = make(map[string]string, 1)
		}
		extra[linkspec.OptionName] = o.name
	}

	desc, err := linkspec.ParseWith(spec, extra)
	if err != nil {
		return nil, err
	}

	h := o.handler
	if h == nil {
		local := desc.Target
		if desc.IsSender() {
			local = desc.Source
		}
		h = c.Resolve(local)
	}

	l := &Link{c: c, desc: desc, handler: h, pinned: o.handler != nil}
	c.reporter.LinkTransition(types.LinkConstructed, types.LinkConstructed)
	c.mu.Lock()
	c.links = append(c.links, l)
	c.mu.Unlock()

	logger.Debug("创建链路", "link", desc.String(), "bound", h != nil)
	return l, nil
}

// Links 按创建顺序返回链路集合
func (c *Container) Links() []*Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Link(nil), c.links...)
}

// Start 按创建顺序启动全部 constructed 链路
//
// 单个链路的建立失败报告给其处理器，不影响其他链路。应在反应器线程上调用
// （例如在 ReactorInit 中），或在反应器运行前调用。容器关闭后返回
// ErrContainerClosed。
func (c *Container) Start(r pkgif.Reactor) error {
	if r == nil {
		return ErrNilReactor
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrContainerClosed
	}
	c.reactor = r
	c.mu.Unlock()

	var err error
	links := c.Links()
	for _, l := range links {
		err = multierr.Append(err, l.Start(r))
	}
	logger.Debug("容器已启动", "container", c.id, "links", len(links))
	return err
}

// Stop 按创建顺序关闭全部链路；幂等
//
// r 不为 nil 时在反应器线程上执行，否则在调用方 goroutine 上执行。
func (c *Container) Stop(r pkgif.Reactor) {
	if r != nil {
		r.Post(c.stopAll)
		return
	}
	c.stopAll()
}

// Runner 可等待退出的反应器
type Runner interface {
	pkgif.Reactor
	Running() bool
	Done() <-chan struct{}
}

// Close 关闭容器；幂等
//
// 先标记容器已关闭，此后 Start 和 Link.Start 返回 ErrContainerClosed，
// 已排队但尚未执行的启动因此不会再拨号。随后在反应器线程上关闭全部链路
// 并等待完成；反应器未运行或已退出时在调用方 goroutine 上关闭。
func (c *Container) Close(ctx context.Context, r Runner) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	if r == nil || !r.Running() {
		c.stopAll()
		return nil
	}

	done := make(chan struct{})
	r.Post(func() {
		c.stopAll()
		close(done)
	})
	select {
	case <-done:
	case <-r.Done():
		// 退出前排空的队列里没有这次投递
		select {
		case <-done:
		default:
			c.stopAll()
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	logger.Debug("容器已关闭", "container", c.id)
	return nil
}

// Closed 是否已关闭
func (c *Container) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Container) stopAll() {
	var err error
	for _, l := range c.Links() {
		err = multierr.Append(err, l.Stop())
	}
	if err != nil {
		logger.Warn("关闭链路出错", "container", c.id, "error", err)
	}
}

// Reactor 最近一次 Start 使用的反应器
func (c *Container) Reactor() pkgif.Reactor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reactor
}

// track 记录引擎端点与托管链路的对应关系
func (c *Container) track(ep pkgif.Link, l *Link) {
	c.mu.Lock()
	c.managed[ep] = l
	c.mu.Unlock()
}

func (c *Container) lookup(ep pkgif.Link) *Link {
	if ep == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managed[ep]
}

// onConnection 按创建顺序返回端点属于 conn 的托管链路，并从索引中移除
func (c *Container) onConnection(conn pkgif.Connection) []*Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*Link
	for _, l := range c.links {
		ep := l.Endpoint()
		if ep == nil || ep.Connection() != conn {
			continue
		}
		if _, ok := c.managed[ep]; ok {
			delete(c.managed, ep)
			out = append(out, l)
		}
	}
	return out
}

// Stats 按状态统计托管链路
func (c *Container) Stats() map[types.LinkState]int {
	out := make(map[types.LinkState]int)
	for _, l := range c.Links() {
		out[l.State()]++
	}
	return out
}
