package datawire

import (
	"errors"

	"github.com/dep2p/go-datawire/internal/core/container"
	"github.com/dep2p/go-datawire/internal/core/transport"
	"github.com/dep2p/go-datawire/pkg/types"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 节点生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 节点未启动
	ErrNotStarted = errors.New("node not started")

	// ErrAlreadyStarted 节点已启动
	ErrAlreadyStarted = errors.New("node already started")

	// ErrNodeClosed 节点已关闭（Stop 之后同样不可重新启动）
	ErrNodeClosed = errors.New("node closed")

	// ────────────────────────────────────────────────────────────────────────
	// 地址与链路错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidAddress 地址格式无效
	ErrInvalidAddress = types.ErrInvalidAddress

	// ErrInvalidLinkSpec 链路描述无效
	ErrInvalidLinkSpec = types.ErrInvalidLinkSpec

	// ErrLinkClosed 链路已关闭
	ErrLinkClosed = container.ErrLinkClosed

	// ErrRejected 对端拒绝了链路（LinkError 事件的 Err）
	ErrRejected = transport.ErrRejected
)
