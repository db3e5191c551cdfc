package config

import (
	"fmt"
	"time"
)

// ReactorConfig 反应器配置
type ReactorConfig struct {
	// MaxBatch 每轮最多执行的投递任务数，超过后先检查定时器
	MaxBatch int `json:"max_batch" yaml:"max_batch"`

	// QuiesceInterval 空闲时重复触发 quiesced 的间隔
	//
	// 0 表示只在每次进入空闲时触发一次。
	QuiesceInterval Duration `json:"quiesce_interval" yaml:"quiesce_interval"`
}

// DefaultReactorConfig 返回默认反应器配置
func DefaultReactorConfig() ReactorConfig {
	return ReactorConfig{
		MaxBatch:        256,
		QuiesceInterval: 0,
	}
}

// Validate 验证反应器配置
func (c ReactorConfig) Validate() error {
	if c.MaxBatch <= 0 {
		return fmt.Errorf("%w: reactor.max_batch must be positive", ErrInvalidConfig)
	}
	if c.QuiesceInterval < 0 {
		return fmt.Errorf("%w: reactor.quiesce_interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// WithQuiesceInterval 设置空闲重复间隔
func (c ReactorConfig) WithQuiesceInterval(d time.Duration) ReactorConfig {
	c.QuiesceInterval = Duration(d)
	return c
}
