// Package log 提供 datawire 统一日志接口
//
// 基于 Go 标准库 log/slog 封装，每个组件持有一个 LazyLogger：
//
//	var logger = log.Logger("core/container")
//	logger.Info("链路已创建", "local", desc.Local)
//
// 日志级别与格式可通过环境变量配置：
//
//	DATAWIRE_LOG_LEVEL=debug|info|warn|error
//	DATAWIRE_LOG_FORMAT=text|json
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

const (
	// EnvLevel 日志级别环境变量
	EnvLevel = "DATAWIRE_LOG_LEVEL"

	// EnvFormat 日志格式环境变量
	EnvFormat = "DATAWIRE_LOG_FORMAT"
)

var (
	mu     sync.RWMutex
	output io.Writer = os.Stderr
	level            = new(slog.LevelVar)
	json   bool
	root   *slog.Logger
)

func init() {
	if lv, err := ParseLevel(os.Getenv(EnvLevel)); err == nil {
		level.Set(lv)
	}
	json = strings.EqualFold(os.Getenv(EnvFormat), "json")
	rebuild()
}

// rebuild 根据当前输出、级别和格式重建根 logger
//
// 调用方需持有 mu 写锁或处于 init 阶段。
func rebuild() {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(output, opts)
	} else {
		h = slog.NewTextHandler(output, opts)
	}
	root = slog.New(h)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// ParseLevel 解析日志级别字符串
//
// 空字符串返回 info。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SetOutput 设置日志输出目标
//
// 已创建的 LazyLogger 在下一次调用时自动使用新的输出。
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// SetLevel 动态设置日志级别
func SetLevel(lv slog.Level) {
	level.Set(lv)
}

// SetJSON 切换 JSON / 文本格式
func SetJSON(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	json = enabled
	rebuild()
}

// Discard 丢弃所有日志（用于测试）
func Discard() {
	SetOutput(io.Discard)
}

// Default 返回当前根 logger
func Default() *slog.Logger {
	return current()
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次日志调用时都从当前根 logger 派生，支持运行时切换输出目标。
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func (l *LazyLogger) get() *slog.Logger {
	return current().With("component", l.component)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) { l.get().Debug(msg, args...) }

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) { l.get().Info(msg, args...) }

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) { l.get().Warn(msg, args...) }

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) { l.get().Error(msg, args...) }

// DebugContext 带 context 的 Debug 日志
func (l *LazyLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.get().DebugContext(ctx, msg, args...)
}

// Enabled 判断指定级别是否输出
func (l *LazyLogger) Enabled(lv slog.Level) bool {
	return current().Enabled(context.Background(), lv)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return l.get().With(args...)
}

// Component 返回组件名
func (l *LazyLogger) Component() string {
	return l.component
}
