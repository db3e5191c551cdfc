package datawire

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-datawire/config"
	"github.com/dep2p/go-datawire/internal/core/container"
	"github.com/dep2p/go-datawire/internal/core/linkspec"
	"github.com/dep2p/go-datawire/internal/core/routing"
	"github.com/dep2p/go-datawire/pkg/address"
)

// Option 用户配置选项函数
type Option func(*nodeConfig) error

// nodeConfig 内部选项结构
type nodeConfig struct {
	// config 统一配置
	config *config.Config

	// root 根处理器
	root Handler

	// routes 预注册路由（按选项顺序）
	routes []routing.Route

	// links 启动前创建的链路
	links []linkRequest

	// clock 反应器时钟（测试注入）
	clock clock.Clock

	// fxOptions 用户自定义 Fx 选项
	fxOptions []fx.Option
}

type linkRequest struct {
	spec string
	opts []container.LinkOption
}

func newNodeConfig() *nodeConfig {
	return &nodeConfig{config: config.NewConfig()}
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置（覆盖此前的配置类选项）
func WithConfig(cfg *config.Config) Option {
	return func(c *nodeConfig) error {
		if cfg == nil {
			return config.ErrNilConfig
		}
		c.config = cfg.Clone()
		return nil
	}
}

// WithConfigFile 从 JSON / YAML 文件加载配置
func WithConfigFile(path string) Option {
	return func(c *nodeConfig) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		c.config = cfg
		return nil
	}
}

// WithPreset 使用预设配置
//
// 可选值：PresetNameServer、PresetNameClient、PresetNameTest。
func WithPreset(name string) Option {
	return func(c *nodeConfig) error {
		cfg, err := presetConfig(name)
		if err != nil {
			return err
		}
		c.config = cfg
		return nil
	}
}

// WithListenAddrs 设置监听地址（host:port）
func WithListenAddrs(addrs ...string) Option {
	return func(c *nodeConfig) error {
		c.config.Transport = c.config.Transport.WithListenAddrs(addrs...)
		return nil
	}
}

// WithQuiesceInterval 空闲时每隔 d 重新触发一次 ReactorQuiesced
func WithQuiesceInterval(d time.Duration) Option {
	return func(c *nodeConfig) error {
		if d < 0 {
			return fmt.Errorf("%w: negative quiesce interval", config.ErrInvalidConfig)
		}
		c.config.Reactor = c.config.Reactor.WithQuiesceInterval(d)
		return nil
	}
}

// WithAutoStart 设置 ReactorInit 时是否自动启动链路
func WithAutoStart(enable bool) Option {
	return func(c *nodeConfig) error {
		c.config.Container.AutoStart = enable
		return nil
	}
}

// WithRejectUnrouted 设置对端打开的链路没有处理器时是否拒绝
func WithRejectUnrouted(reject bool) Option {
	return func(c *nodeConfig) error {
		c.config.Container.RejectUnrouted = reject
		return nil
	}
}

// WithMetrics 设置指标收集；listenAddr 非空时暴露 /metrics
func WithMetrics(enable bool, listenAddr string) Option {
	return func(c *nodeConfig) error {
		c.config.Metrics.Enabled = enable
		c.config.Metrics.ListenAddr = listenAddr
		return nil
	}
}

// WithLogLevel 设置日志级别
func WithLogLevel(level string) Option {
	return func(c *nodeConfig) error {
		c.config.Log.Level = level
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              路由与链路
// ════════════════════════════════════════════════════════════════════════════

// WithRoot 设置根（默认）处理器
func WithRoot(h Handler) Option {
	return func(c *nodeConfig) error {
		c.root = h
		return nil
	}
}

// WithRoute 预注册路由
//
// 同一地址多次注册时后者生效。
func WithRoute(addr string, h Handler) Option {
	return func(c *nodeConfig) error {
		if h == nil {
			return fmt.Errorf("%w: %q", routing.ErrNilHandler, addr)
		}
		if err := address.Validate(addr); err != nil {
			return err
		}
		c.routes = append(c.routes, routing.Route{Address: addr, Handler: h})
		return nil
	}
}

// WithLink 启动前创建链路
//
// 描述格式见 Node.Link。链路在 ReactorInit 时启动（AutoStart）。
func WithLink(spec string, opts ...LinkOption) Option {
	return func(c *nodeConfig) error {
		if _, err := linkspec.Parse(spec); err != nil {
			return err
		}
		c.links = append(c.links, linkRequest{spec: spec, opts: opts})
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              扩展
// ════════════════════════════════════════════════════════════════════════════

// WithClock 注入反应器时钟
func WithClock(clk clock.Clock) Option {
	return func(c *nodeConfig) error {
		if clk == nil {
			return errors.New("nil clock")
		}
		c.clock = clk
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
func WithFxOption(opts ...fx.Option) Option {
	return func(c *nodeConfig) error {
		c.fxOptions = append(c.fxOptions, opts...)
		return nil
	}
}
