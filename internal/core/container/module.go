package container

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-datawire/config"
	"github.com/dep2p/go-datawire/internal/core/metrics"
	"github.com/dep2p/go-datawire/internal/core/reactor"
	"github.com/dep2p/go-datawire/internal/core/routing"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
)

// Params 容器依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Table      *routing.Table
	Engine     pkgif.Engine
	Reactor    *reactor.Reactor
	Reporter   metrics.Reporter `optional:"true"`
}

// Module 返回 Fx 模块
//
// 容器在构造时注册为反应器的全局处理器，OnStop 时关闭容器和全部链路。
func Module() fx.Option {
	return fx.Module("container",
		fx.Provide(ProvideContainer),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideContainer 提供容器，并创建配置中声明的链路
func ProvideContainer(p Params) (*Container, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	c := New(cfg, p.Table, p.Engine, p.Reporter)
	for _, spec := range cfg.Links {
		if _, err := c.CreateLink(spec); err != nil {
			return nil, err
		}
	}
	p.Reactor.AddGlobal(c)
	return c, nil
}

type lifecycleInput struct {
	fx.In

	LC        fx.Lifecycle
	Container *Container
	Reactor   *reactor.Reactor
}

// registerLifecycle OnStop 在反应器停止之前执行，链路在反应器线程上关闭
func registerLifecycle(in lifecycleInput) {
	in.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return in.Container.Close(ctx, in.Reactor)
		},
	})
}
