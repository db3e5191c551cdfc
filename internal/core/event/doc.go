// Package event 实现处理器能力分派
//
// 处理器按能力接口实现事件方法（OnMessage、OnTimerTask …），
// Dispatch 在调用前检查能力是否存在，缺失时回退到 OnUnhandled。
//
// 函数适配器让普通函数直接充当处理器：
//
//	r.Schedule(time.Second, event.TimerFunc(func(ev *interfaces.Event) {
//	    // ...
//	}))
package event
