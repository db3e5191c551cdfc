package config

import "errors"

var (
	// ErrNilConfig 配置为空
	ErrNilConfig = errors.New("config is nil")

	// ErrInvalidConfig 配置值无效
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnknownFormat 无法识别的配置文件格式
	ErrUnknownFormat = errors.New("unknown config format")
)
