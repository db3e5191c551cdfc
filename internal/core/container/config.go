package container

import (
	"github.com/dep2p/go-datawire/config"
)

// Config 容器配置
type Config struct {
	// ID 容器标识，为空时自动生成
	ID string

	// AutoStart ReactorInit 时启动全部链路
	AutoStart bool

	// RejectUnrouted 对端打开的链路解析不到处理器时拒绝
	RejectUnrouted bool

	// Links 创建容器时创建的链路描述
	Links []string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建容器配置
func ConfigFromUnified(cfg *config.Config) Config {
	cc := config.DefaultContainerConfig()
	if cfg != nil {
		cc = cfg.Container
	}
	return Config{
		ID:             cc.ID,
		AutoStart:      cc.AutoStart,
		RejectUnrouted: cc.RejectUnrouted,
		Links:          append([]string(nil), cc.Links...),
	}
}
