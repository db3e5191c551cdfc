package event

import "github.com/dep2p/go-datawire/pkg/interfaces"

// Func 接收全部事件的函数处理器
type Func func(ev *interfaces.Event)

// HandleEvent 实现 interfaces.EventHandler
func (f Func) HandleEvent(ev *interfaces.Event) { f(ev) }

// MessageFunc 消息处理函数
type MessageFunc func(ev *interfaces.Event)

// OnMessage 实现 interfaces.MessageHandler
func (f MessageFunc) OnMessage(ev *interfaces.Event) { f(ev) }

// TimerFunc 定时任务函数
type TimerFunc func(ev *interfaces.Event)

// OnTimerTask 实现 interfaces.TimerHandler
func (f TimerFunc) OnTimerTask(ev *interfaces.Event) { f(ev) }

// QuiescedFunc 空闲回调函数
type QuiescedFunc func(ev *interfaces.Event)

// OnReactorQuiesced 实现 interfaces.QuiescedHandler
func (f QuiescedFunc) OnReactorQuiesced(ev *interfaces.Event) { f(ev) }

// LinkOpenFunc 链路打开回调函数
type LinkOpenFunc func(ev *interfaces.Event)

// OnLinkRemoteOpen 实现 interfaces.LinkOpenHandler
func (f LinkOpenFunc) OnLinkRemoteOpen(ev *interfaces.Event) { f(ev) }

// Chain 依次把事件分派给多个处理器
//
// 等价于一个处理器带若干子处理器：父处理器先处理，子处理器随后。
type Chain []interfaces.Handler

// HandleEvent 实现 interfaces.EventHandler
func (c Chain) HandleEvent(ev *interfaces.Event) {
	for _, h := range c {
		Dispatch(ev, h)
	}
}
