package datawire

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-datawire/internal/core/container"
	"github.com/dep2p/go-datawire/internal/core/metrics"
	"github.com/dep2p/go-datawire/internal/core/reactor"
	"github.com/dep2p/go-datawire/internal/core/routing"
	"github.com/dep2p/go-datawire/internal/core/transport"
	"github.com/dep2p/go-datawire/pkg/lib/log"
)

var fxLogger = log.Logger("datawire/fx")

// ════════════════════════════════════════════════════════════════════════════
//                              Fx 模块组装
// ════════════════════════════════════════════════════════════════════════════

// buildFxApp 构建 Fx 应用
//
// 模块按依赖顺序加载，生命周期钩子按同样顺序执行：
//  1. Metrics: 指标注册表与 /metrics 服务
//  2. Routing: 路由表（根处理器 + 预注册路由）
//  3. Transport: 协议引擎，OnStart 时监听
//  4. Reactor: 事件循环，OnStart 时在独立 goroutine 上运行
//  5. Container: 路由容器，注册为反应器全局处理器
//
// 停止时逆序：先关闭链路，再停止反应器，最后关闭引擎。
func buildFxApp(cfg *nodeConfig, node *Node) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(cfg.config),

		metrics.Module(),
		routing.Module(),
		transport.Module(),
		reactor.Module(),
		container.Module(),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 路由与时钟
	// ════════════════════════════════════════════════════════════════════════
	if cfg.root != nil {
		modules = append(modules, fx.Supply(&routing.Root{Handler: cfg.root}))
	}
	for _, r := range cfg.routes {
		route := r
		modules = append(modules, fx.Provide(fx.Annotate(
			func() routing.Route { return route },
			fx.ResultTags(`group:"routes"`),
		)))
	}
	if cfg.clock != nil {
		clk := cfg.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. 启动前链路与节点注入
	// ════════════════════════════════════════════════════════════════════════
	if len(cfg.links) > 0 {
		modules = append(modules, fx.Invoke(createLinks(cfg.links)))
	}
	modules = append(modules, fx.Invoke(injectNodeComponents(node)))

	// ════════════════════════════════════════════════════════════════════════
	// 5. 用户扩展
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, cfg.fxOptions...)

	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	fxLogger.Debug("组装 Fx 应用", "routes", len(cfg.routes), "links", len(cfg.links), "root", cfg.root != nil)
	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}

// createLinks 创建 WithLink 声明的链路
func createLinks(links []linkRequest) interface{} {
	return func(c *container.Container) error {
		for _, req := range links {
			if _, err := c.CreateLink(req.spec, req.opts...); err != nil {
				return fmt.Errorf("create link %q: %w", req.spec, err)
			}
		}
		return nil
	}
}

// nodeInjectParams Node 依赖注入参数
type nodeInjectParams struct {
	fx.In

	Reactor   *reactor.Reactor
	Engine    *transport.Engine
	Container *container.Container
	Metrics   *metrics.Metrics `optional:"true"`
}

// injectNodeComponents 创建 Node 组件注入函数
func injectNodeComponents(node *Node) interface{} {
	return func(params nodeInjectParams) {
		node.reactor = params.Reactor
		node.engine = params.Engine
		node.container = params.Container
		node.metrics = params.Metrics
	}
}
