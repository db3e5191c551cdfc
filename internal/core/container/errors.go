package container

import (
	"errors"

	"github.com/dep2p/go-datawire/internal/core/routing"
	"github.com/dep2p/go-datawire/pkg/types"
)

var (
	// ErrNilReactor 未提供反应器
	ErrNilReactor = errors.New("container: nil reactor")

	// ErrContainerClosed 容器已关闭
	ErrContainerClosed = errors.New("container: closed")

	// ErrLinkClosed 链路已关闭或正在关闭
	ErrLinkClosed = errors.New("container: link closed")

	// ErrNotSender 链路不是发送端
	ErrNotSender = errors.New("container: link is not a sender")

	// ErrInvalidLinkSpec 链路描述无效
	ErrInvalidLinkSpec = types.ErrInvalidLinkSpec

	// ErrNilHandler 处理器为 nil
	ErrNilHandler = routing.ErrNilHandler
)

// RejectNoRoute 没有处理器时拒绝链路使用的原因
const RejectNoRoute = "datawire:no-route"
