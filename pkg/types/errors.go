// Package types 定义 datawire 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

var (
	// ErrInvalidAddress 地址格式无效
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidLinkSpec 链路描述无效
	ErrInvalidLinkSpec = errors.New("invalid link spec")
)
