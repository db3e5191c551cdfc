package interfaces

import (
	"time"
)

// Reactor 单线程协作式事件循环
//
// 所有事件、定时回调和分派都在同一个逻辑线程上执行。
// Post / Emit / Schedule / Stop 可在任意 goroutine 调用。
type Reactor interface {
	// Schedule 在 delay 之后向 handler 投递 TimerTask 事件
	//
	// 不早于 delay 触发，可能因循环繁忙而延后。
	Schedule(delay time.Duration, handler Handler) Task

	// Post 在反应器线程上执行 fn
	Post(fn func())

	// Emit 将事件投递给反应器的全局处理器
	Emit(ev *Event)

	// Now 返回反应器时钟的当前时间
	Now() time.Time

	// Stop 请求反应器退出
	Stop()
}

// Task 已调度的定时任务
type Task interface {
	// Cancel 取消任务；已触发或已取消时为空操作
	Cancel()

	// Deadline 返回触发时间
	Deadline() time.Time
}
