package interfaces

// Handler 应用处理器
//
// 处理器是任意值，按能力接口分派：只实现关心的事件方法即可，
// 分派层在调用前检查能力是否存在。
type Handler = any

// EventHandler 接收全部事件的处理器
//
// 实现了 EventHandler 的处理器不会再按单个能力接口分派。
type EventHandler interface {
	HandleEvent(ev *Event)
}

// InitHandler 反应器启动
type InitHandler interface {
	OnReactorInit(ev *Event)
}

// QuiescedHandler 反应器空闲
type QuiescedHandler interface {
	OnReactorQuiesced(ev *Event)
}

// FinalHandler 反应器退出
type FinalHandler interface {
	OnReactorFinal(ev *Event)
}

// TimerHandler 定时任务到期
type TimerHandler interface {
	OnTimerTask(ev *Event)
}

// ConnectionHandler 连接完成握手
type ConnectionHandler interface {
	OnConnectionBound(ev *Event)
}

// LinkOpenHandler 对端打开链路
type LinkOpenHandler interface {
	OnLinkRemoteOpen(ev *Event)
}

// LinkCloseHandler 对端关闭链路
type LinkCloseHandler interface {
	OnLinkRemoteClose(ev *Event)
}

// LinkErrorHandler 链路建立失败
type LinkErrorHandler interface {
	OnLinkError(ev *Event)
}

// MessageHandler 收到消息
type MessageHandler interface {
	OnMessage(ev *Event)
}

// TransportClosedHandler 传输层关闭
type TransportClosedHandler interface {
	OnTransportClosed(ev *Event)
}

// UnhandledHandler 兜底：处理器没有对应能力时调用
type UnhandledHandler interface {
	OnUnhandled(ev *Event)
}
