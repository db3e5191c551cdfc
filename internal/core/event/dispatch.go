package event

import (
	"github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/types"
)

// Dispatch 将事件投递给处理器
//
// 返回处理器是否具备对应能力。nil 处理器为空操作。
func Dispatch(ev *interfaces.Event, h interfaces.Handler) bool {
	if h == nil || ev == nil {
		return false
	}
	if eh, ok := h.(interfaces.EventHandler); ok {
		eh.HandleEvent(ev)
		return true
	}
	if deliver(ev, h) {
		return true
	}
	if uh, ok := h.(interfaces.UnhandledHandler); ok {
		uh.OnUnhandled(ev)
		return true
	}
	return false
}

func deliver(ev *interfaces.Event, h interfaces.Handler) bool {
	switch ev.Type {
	case types.EventReactorInit:
		if x, ok := h.(interfaces.InitHandler); ok {
			x.OnReactorInit(ev)
			return true
		}
	case types.EventReactorQuiesced:
		if x, ok := h.(interfaces.QuiescedHandler); ok {
			x.OnReactorQuiesced(ev)
			return true
		}
	case types.EventReactorFinal:
		if x, ok := h.(interfaces.FinalHandler); ok {
			x.OnReactorFinal(ev)
			return true
		}
	case types.EventTimerTask:
		if x, ok := h.(interfaces.TimerHandler); ok {
			x.OnTimerTask(ev)
			return true
		}
	case types.EventConnectionBound:
		if x, ok := h.(interfaces.ConnectionHandler); ok {
			x.OnConnectionBound(ev)
			return true
		}
	case types.EventLinkRemoteOpen:
		if x, ok := h.(interfaces.LinkOpenHandler); ok {
			x.OnLinkRemoteOpen(ev)
			return true
		}
	case types.EventLinkRemoteClose:
		if x, ok := h.(interfaces.LinkCloseHandler); ok {
			x.OnLinkRemoteClose(ev)
			return true
		}
	case types.EventLinkError:
		if x, ok := h.(interfaces.LinkErrorHandler); ok {
			x.OnLinkError(ev)
			return true
		}
	case types.EventMessage:
		if x, ok := h.(interfaces.MessageHandler); ok {
			x.OnMessage(ev)
			return true
		}
	case types.EventTransportClosed:
		if x, ok := h.(interfaces.TransportClosedHandler); ok {
			x.OnTransportClosed(ev)
			return true
		}
	}
	return false
}

// Handles 判断处理器是否能处理某类事件（不调用）
func Handles(h interfaces.Handler, t types.EventType) bool {
	if h == nil {
		return false
	}
	if _, ok := h.(interfaces.EventHandler); ok {
		return true
	}
	var ok bool
	switch t {
	case types.EventReactorInit:
		_, ok = h.(interfaces.InitHandler)
	case types.EventReactorQuiesced:
		_, ok = h.(interfaces.QuiescedHandler)
	case types.EventReactorFinal:
		_, ok = h.(interfaces.FinalHandler)
	case types.EventTimerTask:
		_, ok = h.(interfaces.TimerHandler)
	case types.EventConnectionBound:
		_, ok = h.(interfaces.ConnectionHandler)
	case types.EventLinkRemoteOpen:
		_, ok = h.(interfaces.LinkOpenHandler)
	case types.EventLinkRemoteClose:
		_, ok = h.(interfaces.LinkCloseHandler)
	case types.EventLinkError:
		_, ok = h.(interfaces.LinkErrorHandler)
	case types.EventMessage:
		_, ok = h.(interfaces.MessageHandler)
	case types.EventTransportClosed:
		_, ok = h.(interfaces.TransportClosedHandler)
	}
	if !ok {
		_, ok = h.(interfaces.UnhandledHandler)
	}
	return ok
}
