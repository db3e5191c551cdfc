package container

import (
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/types"
)

// Handshaker 握手参与者
//
// 在容器分派之后处理链路事件：对端已打开而本端尚未打开的链路在本端打开，
// 对端已关闭而本端仍打开的链路在本端关闭。处理器在回调中拒绝（关闭）的
// 链路不会被再次打开。
type Handshaker struct{}

var (
	_ pkgif.LinkOpenHandler  = Handshaker{}
	_ pkgif.LinkCloseHandler = Handshaker{}
)

// OnLinkRemoteOpen 本端打开对端已打开的链路
func (Handshaker) OnLinkRemoteOpen(ev *pkgif.Event) {
	l := ev.Link
	if l == nil || !l.State().Is(types.LocalUninit) {
		return
	}
	if err := l.Open(); err != nil {
		logger.Debug("握手打开链路失败", "link", l.Name(), "error", err)
	}
}

// OnLinkRemoteClose 本端关闭对端已关闭的链路
func (Handshaker) OnLinkRemoteClose(ev *pkgif.Event) {
	l := ev.Link
	if l == nil || l.State().Is(types.LocalClosed) {
		return
	}
	if err := l.Close(); err != nil {
		logger.Debug("握手关闭链路失败", "link", l.Name(), "error", err)
	}
}
