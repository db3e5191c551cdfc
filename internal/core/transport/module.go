package transport

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-datawire/config"
	"github.com/dep2p/go-datawire/internal/core/metrics"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
)

// Params 传输层依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config   `optional:"true"`
	Reporter   metrics.Reporter `optional:"true"`
}

// Module 返回 Fx 模块
//
// OnStart 在配置的地址上监听，OnStop 关闭引擎（全部监听器和连接）。
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(
			ProvideEngine,
			func(e *Engine) pkgif.Engine { return e },
		),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideEngine 提供引擎
func ProvideEngine(p Params) *Engine {
	return NewEngine(ConfigFromUnified(p.UnifiedCfg), p.Reporter)
}

type lifecycleInput struct {
	fx.In

	LC         fx.Lifecycle
	Engine     *Engine
	Reactor    pkgif.Reactor
	UnifiedCfg *config.Config `optional:"true"`
}

func registerLifecycle(in lifecycleInput) {
	cfg := ConfigFromUnified(in.UnifiedCfg)
	in.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var err error
			for _, addr := range cfg.ListenAddrs {
				if _, lerr := in.Engine.Listen(addr, in.Reactor); lerr != nil {
					err = multierr.Append(err, lerr)
				}
			}
			if err != nil {
				_ = in.Engine.Close()
			}
			return err
		},
		OnStop: func(_ context.Context) error {
			return in.Engine.Close()
		},
	})
}
