package reactor

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-datawire/config"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
)

// Params 反应器依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Clock      clock.Clock    `optional:"true"`
}

// Module 返回 Fx 模块
//
// 反应器在 OnStart 时于独立 goroutine 上运行，OnStop 时停止并等待退出。
func Module() fx.Option {
	return fx.Module("reactor",
		fx.Provide(
			ProvideReactor,
			func(r *Reactor) pkgif.Reactor { return r },
		),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideReactor 提供反应器
func ProvideReactor(p Params) *Reactor {
	return New(ConfigFromUnified(p.UnifiedCfg), p.Clock)
}

type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Reactor *Reactor
}

func registerLifecycle(in lifecycleInput) {
	in.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := in.Reactor.Run(context.Background()); err != nil {
					logger.Warn("反应器异常退出", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			in.Reactor.Stop()
			select {
			case <-in.Reactor.Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
