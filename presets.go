package datawire

import (
	"fmt"
	"time"

	"github.com/dep2p/go-datawire/config"
)

// ════════════════════════════════════════════════════════════════════════════
//                              预设配置
// ════════════════════════════════════════════════════════════════════════════

// 预设名称常量
const (
	// PresetNameServer 服务端预设名称
	PresetNameServer = "server"

	// PresetNameClient 客户端预设名称
	PresetNameClient = "client"

	// PresetNameTest 测试预设名称
	PresetNameTest = "test"
)

// DefaultListenAddr 服务端预设的监听地址
const DefaultListenAddr = "0.0.0.0:5672"

// GetServerConfig 获取服务端配置
//
// 特点：
//   - 监听 0.0.0.0:5672
//   - 没有处理器的入站链路被拒绝
//   - 启用指标
func GetServerConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Transport = cfg.Transport.WithListenAddrs(DefaultListenAddr)
	cfg.Container.RejectUnrouted = true
	return cfg
}

// GetClientConfig 获取客户端配置
//
// 特点：不监听，只发起链路；反应器启动时自动启动链路。
func GetClientConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Container.AutoStart = true
	return cfg
}

// GetTestConfig 获取测试配置
//
// 特点：
//   - 监听回环地址的随机端口
//   - 关闭指标
//   - 缩短超时
func GetTestConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Transport = cfg.Transport.WithListenAddrs("127.0.0.1:0")
	cfg.Transport.DialTimeout = config.Duration(2 * time.Second)
	cfg.Transport.HandshakeTimeout = config.Duration(2 * time.Second)
	cfg.Metrics.Enabled = false
	cfg.Log.Level = "warn"
	return cfg
}

func presetConfig(name string) (*config.Config, error) {
	switch name {
	case PresetNameServer:
		return GetServerConfig(), nil
	case PresetNameClient:
		return GetClientConfig(), nil
	case PresetNameTest:
		return GetTestConfig(), nil
	default:
		return nil, fmt.Errorf("%w: unknown preset %q", config.ErrInvalidConfig, name)
	}
}
