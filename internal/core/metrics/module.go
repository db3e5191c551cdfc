package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-datawire/config"
)

// Config 指标配置
type Config struct {
	// Enabled 是否启用指标收集
	Enabled bool

	// Namespace 指标名前缀
	Namespace string

	// ListenAddr /metrics 暴露地址，为空时不启动 HTTP 服务
	ListenAddr string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	mc := config.DefaultMetricsConfig()
	if cfg != nil {
		mc = cfg.Metrics
	}
	return Config{
		Enabled:    mc.Enabled,
		Namespace:  mc.Namespace,
		ListenAddr: mc.ListenAddr,
	}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Clock      clock.Clock    `optional:"true"`
}

// Result Metrics 提供结果
type Result struct {
	fx.Out

	Reporter Reporter
	Metrics  *Metrics
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideMetrics),
		fx.Invoke(registerServer),
	)
}

// ProvideMetrics 按配置提供指标；关闭时 Reporter 为 Nop、Metrics 为 nil
func ProvideMetrics(p Params) Result {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		return Result{Reporter: Nop{}}
	}
	m := New(cfg.Namespace, p.Clock)
	return Result{Reporter: m, Metrics: m}
}

type serverInput struct {
	fx.In

	LC         fx.Lifecycle
	UnifiedCfg *config.Config `optional:"true"`
	Metrics    *Metrics       `optional:"true"`
}

// registerServer 配置了 ListenAddr 时启动 /metrics HTTP 服务
func registerServer(in serverInput) {
	cfg := ConfigFromUnified(in.UnifiedCfg)
	if in.Metrics == nil || cfg.ListenAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", in.Metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	in.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			ln, err := net.Listen("tcp", cfg.ListenAddr)
			if err != nil {
				return err
			}
			logger.Info("指标服务已启动", "addr", ln.Addr().String())
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Warn("指标服务退出", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
