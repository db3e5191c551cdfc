package reactor

import (
	"time"

	"github.com/dep2p/go-datawire/config"
)

// Config 反应器配置
type Config struct {
	// MaxBatch 每轮最多执行的投递任务数
	MaxBatch int

	// QuiesceInterval 空闲时重复触发 quiesced 的间隔，0 表示不重复
	QuiesceInterval time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建反应器配置
func ConfigFromUnified(cfg *config.Config) Config {
	rc := config.DefaultReactorConfig()
	if cfg != nil {
		rc = cfg.Reactor
	}
	return Config{
		MaxBatch:        rc.MaxBatch,
		QuiesceInterval: rc.QuiesceInterval.Duration(),
	}
}

func (c Config) normalize() Config {
	if c.MaxBatch <= 0 {
		c.MaxBatch = config.DefaultReactorConfig().MaxBatch
	}
	if c.QuiesceInterval < 0 {
		c.QuiesceInterval = 0
	}
	return c
}
