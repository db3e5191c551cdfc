package datawire

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-datawire/internal/core/container"
	"github.com/dep2p/go-datawire/internal/core/metrics"
	"github.com/dep2p/go-datawire/internal/core/reactor"
	"github.com/dep2p/go-datawire/internal/core/transport"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/lib/log"
)

var logger = log.Logger("datawire")

const (
	// initializeTimeout 初始化超时（Fx App Start）
	initializeTimeout = 30 * time.Second

	// shutdownTimeout Close 时的停止超时
	shutdownTimeout = 10 * time.Second
)

// Node datawire 节点
//
// 组合反应器、传输引擎和路由容器。生命周期：
//
//	New → Start → Stop / Close
//
// 反应器只能运行一次，因此 Stop 之后不能重新 Start。
type Node struct {
	// ────────────────────────────────────────────────────────────────────────
	// 配置
	// ────────────────────────────────────────────────────────────────────────

	// config 节点配置
	config *nodeConfig

	// app Fx 应用
	app *fx.App

	// ────────────────────────────────────────────────────────────────────────
	// 核心组件（由 Fx 注入）
	// ────────────────────────────────────────────────────────────────────────

	reactor   *reactor.Reactor
	engine    *transport.Engine
	container *container.Container
	metrics   *metrics.Metrics

	// ────────────────────────────────────────────────────────────────────────
	// 生命周期状态
	// ────────────────────────────────────────────────────────────────────────

	mu    sync.RWMutex
	state NodeState
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建节点
//
// 创建节点但不启动，需要调用 Start() 启动。
//
// 示例：
//
//	node, err := datawire.New(
//	    datawire.WithListenAddrs("127.0.0.1:5672"),
//	    datawire.WithRoot(root),
//	    datawire.WithRoute("outbox/alice", alice),
//	)
func New(opts ...Option) (*Node, error) {
	cfg := newNodeConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if err := cfg.config.Log.Apply(); err != nil {
		return nil, fmt.Errorf("apply log config: %w", err)
	}

	node := &Node{config: cfg}
	var err error
	node.app, err = buildFxApp(cfg, node)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return node, nil
}

// Start 快捷启动函数
//
// 等价于 New() + Start()。
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	node, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := node.Start(ctx); err != nil {
		return nil, fmt.Errorf("start node: %w", err)
	}
	return node, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动节点
//
// 依次启动指标服务、监听器和反应器。反应器启动后触发 ReactorInit，
// 容器在此时启动 WithLink 创建的链路（AutoStart）。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrNodeClosed
	}

	initCtx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()
	if err := n.app.Start(initCtx); err != nil {
		logger.Error("节点启动失败", "error", err)
		n.state = StateStopped
		return fmt.Errorf("initialize failed: %w", err)
	}

	n.state = StateRunning
	logger.Info("节点已启动", "container", n.container.ID(), "addrs", n.listenAddrs())
	return nil
}

// Stop 停止节点
//
// 按创建顺序关闭全部链路，停止反应器（ReactorFinal），最后关闭连接和监听器。
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateIdle:
		return ErrNotStarted
	case StateStopped:
		return ErrNodeClosed
	}

	n.state = StateStopped
	if err := n.app.Stop(ctx); err != nil {
		logger.Error("停止节点失败", "error", err)
		return fmt.Errorf("stop fx app: %w", err)
	}
	logger.Info("节点已停止")
	return nil
}

// Close 关闭节点并释放所有资源；幂等
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	prev := n.state
	n.state = StateStopped
	if prev != StateRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := n.app.Stop(ctx); err != nil {
		logger.Warn("停止 Fx 应用失败", "error", err)
		return err
	}
	logger.Info("节点已关闭")
	return nil
}

// State 返回节点状态
func (n *Node) State() NodeState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// Done 返回反应器退出时关闭的通道
func (n *Node) Done() <-chan struct{} {
	return n.reactor.Done()
}

// ════════════════════════════════════════════════════════════════════════════
//                              路由
// ════════════════════════════════════════════════════════════════════════════

// Register 注册或覆盖地址上的处理器（后写者胜）
//
// 以 "/" 结尾的地址是通配前缀，与不带 "/" 的同名地址是不同的键。
func (n *Node) Register(addr string, h Handler) error {
	return n.container.Register(addr, h)
}

// Resolve 解析地址对应的处理器；没有匹配且没有根处理器时返回 nil
func (n *Node) Resolve(addr string) Handler {
	return n.container.Resolve(addr)
}

// ════════════════════════════════════════════════════════════════════════════
//                              链路
// ════════════════════════════════════════════════════════════════════════════

// Link 创建链路
//
// 描述格式：
//
//	[send|recv] <local> [-> <remote> | <- <remote>] [key=value ...]
//
// 例如 "send //broker:5672/outbox/alice"、"recv inbox <- //broker/news"。
// 处理器按本端地址解析，可用 WithLinkHandler 直接指定。
// 节点运行中时链路在反应器线程上立即启动，否则在 ReactorInit 时启动。
// 节点停止后排队中的启动不再执行，链路保持 constructed。
func (n *Node) Link(spec string, opts ...LinkOption) (*Link, error) {
	l, err := n.container.CreateLink(spec, opts...)
	if err != nil {
		return nil, err
	}
	if n.State() == StateRunning {
		r := n.reactor
		r.Post(func() {
			switch err := l.Start(r); {
			case errors.Is(err, container.ErrContainerClosed):
				logger.Debug("节点已停止，链路不再启动", "link", spec)
			case err != nil:
				logger.Warn("启动链路失败", "link", spec, "error", err)
			}
		})
	}
	return l, nil
}

// Links 按创建顺序返回链路
func (n *Node) Links() []*Link {
	return n.container.Links()
}

// ════════════════════════════════════════════════════════════════════════════
//                              反应器
// ════════════════════════════════════════════════════════════════════════════

// Schedule 在 delay 之后向 h 投递 TimerTask 事件
func (n *Node) Schedule(delay time.Duration, h Handler) Task {
	return n.reactor.Schedule(delay, h)
}

// Post 在反应器线程上执行 fn
func (n *Node) Post(fn func()) {
	n.reactor.Post(fn)
}

// ════════════════════════════════════════════════════════════════════════════
//                              组件访问
// ════════════════════════════════════════════════════════════════════════════

// Container 路由容器
func (n *Node) Container() *container.Container {
	return n.container
}

// Reactor 反应器
func (n *Node) Reactor() pkgif.Reactor {
	return n.reactor
}

// ListenAddrs 返回实际监听地址（host:port）
func (n *Node) ListenAddrs() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.listenAddrs()
}

func (n *Node) listenAddrs() []string {
	addrs := n.engine.ListenAddrs()
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return out
}

// ConnectionCount 返回活跃连接数
func (n *Node) ConnectionCount() int {
	return n.engine.ConnCount()
}

// MetricsHandler 返回 /metrics HTTP 处理器；指标关闭时返回 nil
func (n *Node) MetricsHandler() http.Handler {
	if n.metrics == nil {
		return nil
	}
	return n.metrics.Handler()
}
