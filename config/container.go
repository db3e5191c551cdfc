package config

import "fmt"

// ContainerConfig 容器配置
type ContainerConfig struct {
	// ID 容器标识，为空时启动时生成
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// AutoStart 反应器启动时自动启动全部链路
	AutoStart bool `json:"auto_start" yaml:"auto_start"`

	// RejectUnrouted 对端打开的链路没有处理器时拒绝
	//
	// false 时只记录日志并丢弃事件，链路保持未分派状态。
	RejectUnrouted bool `json:"reject_unrouted" yaml:"reject_unrouted"`

	// Links 启动时创建的链路描述
	Links []string `json:"links,omitempty" yaml:"links,omitempty"`
}

// DefaultContainerConfig 返回默认容器配置
func DefaultContainerConfig() ContainerConfig {
	return ContainerConfig{
		AutoStart:      true,
		RejectUnrouted: true,
	}
}

// Validate 验证容器配置
func (c ContainerConfig) Validate() error {
	for i, l := range c.Links {
		if l == "" {
			return fmt.Errorf("%w: container.links[%d] is empty", ErrInvalidConfig, i)
		}
	}
	return nil
}
