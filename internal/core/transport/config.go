package transport

import (
	"io"
	"time"

	"github.com/hashicorp/yamux"

	"github.com/dep2p/go-datawire/config"
)

// Config 传输层配置
type Config struct {
	// ListenAddrs 启动时监听的地址
	ListenAddrs []string

	// DialTimeout 拨号超时
	DialTimeout time.Duration

	// HandshakeTimeout 协议协商超时
	HandshakeTimeout time.Duration

	// AcceptRate 每秒接受的入站连接数
	AcceptRate float64

	// AcceptBurst 入站连接突发上限
	AcceptBurst int

	// KeepAliveInterval 会话心跳间隔，0 表示禁用
	KeepAliveInterval time.Duration

	// WriteTimeout 会话写超时
	WriteTimeout time.Duration

	// MaxFrameSize 单帧最大字节数
	MaxFrameSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	tc := config.DefaultTransportConfig()
	if cfg != nil {
		tc = cfg.Transport
	}
	return Config{
		ListenAddrs:       append([]string(nil), tc.ListenAddrs...),
		DialTimeout:       tc.DialTimeout.Duration(),
		HandshakeTimeout:  tc.HandshakeTimeout.Duration(),
		AcceptRate:        tc.AcceptRate,
		AcceptBurst:       tc.AcceptBurst,
		KeepAliveInterval: tc.KeepAliveInterval.Duration(),
		WriteTimeout:      tc.WriteTimeout.Duration(),
		MaxFrameSize:      tc.MaxFrameSize,
	}
}

// yamuxConfig 转换为 yamux 配置
func (c Config) yamuxConfig() *yamux.Config {
	yc := yamux.DefaultConfig()
	yc.LogOutput = io.Discard
	yc.EnableKeepAlive = c.KeepAliveInterval > 0
	if c.KeepAliveInterval > 0 {
		yc.KeepAliveInterval = c.KeepAliveInterval
	}
	if c.WriteTimeout > 0 {
		yc.ConnectionWriteTimeout = c.WriteTimeout
	}
	return yc
}
