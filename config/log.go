package config

import (
	"fmt"

	"github.com/dep2p/go-datawire/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug / info / warn / error
	Level string `json:"level" yaml:"level"`

	// Format 输出格式：text / json
	Format string `json:"format" yaml:"format"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	if _, err := log.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	switch c.Format {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Format)
	}
}

// Apply 应用到全局日志
func (c LogConfig) Apply() error {
	lv, err := log.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	log.SetLevel(lv)
	log.SetJSON(c.Format == "json")
	return nil
}
