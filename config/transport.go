package config

import (
	"fmt"
	"time"
)

// TransportConfig 传输层配置
//
// 连接为 TCP，经 multistream-select 握手后以 yamux 多路复用，
// 每条链路占用一个流。
type TransportConfig struct {
	// ListenAddrs 监听地址（host:port）
	ListenAddrs []string `json:"listen_addrs,omitempty" yaml:"listen_addrs,omitempty"`

	// DialTimeout 拨号超时
	DialTimeout Duration `json:"dial_timeout" yaml:"dial_timeout"`

	// HandshakeTimeout 协议协商超时
	HandshakeTimeout Duration `json:"handshake_timeout" yaml:"handshake_timeout"`

	// AcceptRate 每秒接受的入站连接数
	AcceptRate float64 `json:"accept_rate" yaml:"accept_rate"`

	// AcceptBurst 入站连接突发上限
	AcceptBurst int `json:"accept_burst" yaml:"accept_burst"`

	// KeepAliveInterval 多路复用会话心跳间隔，0 表示禁用
	KeepAliveInterval Duration `json:"keep_alive_interval" yaml:"keep_alive_interval"`

	// WriteTimeout 会话写超时
	WriteTimeout Duration `json:"write_timeout" yaml:"write_timeout"`

	// MaxFrameSize 单个链路帧的最大字节数
	MaxFrameSize int `json:"max_frame_size" yaml:"max_frame_size"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		DialTimeout:       Duration(10 * time.Second),
		HandshakeTimeout:  Duration(10 * time.Second),
		AcceptRate:        100,
		AcceptBurst:       20,
		KeepAliveInterval: Duration(30 * time.Second),
		WriteTimeout:      Duration(10 * time.Second),
		MaxFrameSize:      1 << 20,
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	if c.DialTimeout <= 0 {
		return fmt.Errorf("%w: transport.dial_timeout must be positive", ErrInvalidConfig)
	}
	if c.HandshakeTimeout <= 0 {
		return fmt.Errorf("%w: transport.handshake_timeout must be positive", ErrInvalidConfig)
	}
	if c.AcceptRate <= 0 || c.AcceptBurst <= 0 {
		return fmt.Errorf("%w: transport.accept_rate and accept_burst must be positive", ErrInvalidConfig)
	}
	if c.KeepAliveInterval < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("%w: transport timeouts must not be negative", ErrInvalidConfig)
	}
	if c.MaxFrameSize < 1024 {
		return fmt.Errorf("%w: transport.max_frame_size must be at least 1024", ErrInvalidConfig)
	}
	return nil
}

// WithListenAddrs 设置监听地址
func (c TransportConfig) WithListenAddrs(addrs ...string) TransportConfig {
	c.ListenAddrs = append([]string(nil), addrs...)
	return c
}
