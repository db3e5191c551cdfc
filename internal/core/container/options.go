package container

import (
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
)

// LinkOption 链路创建选项
type LinkOption func(*linkOptions)

type linkOptions struct {
	name    string
	handler pkgif.Handler
	extra   map[string]string
}

// WithName 指定链路名称
func WithName(name string) LinkOption {
	return func(o *linkOptions) {
		o.name = name
	}
}

// WithHandler 直接绑定处理器，不经过路由表解析
func WithHandler(h pkgif.Handler) LinkOption {
	return func(o *linkOptions) {
		o.handler = h
	}
}

// WithOption 追加协议选项，覆盖描述串中的同名选项
func WithOption(key, value string) LinkOption {
	return func(o *linkOptions) {
		if o.extra == nil {
			o.extra = make(map[string]string)
		}
		o.extra[key] = value
	}
}
