// Package reactor 实现单线程协作式事件循环
//
// 反应器在一个 goroutine 上顺序执行：投递任务（Post / Emit）、
// 到期定时任务（Schedule）以及生命周期事件分派。处理器之间不会抢占。
//
// # 生命周期事件
//
//   - ReactorInit: Run 开始后、第一个任务之前触发一次
//   - ReactorQuiesced: 每次没有可立即执行的工作时触发一次，
//     直到有新工作执行后才会再次触发
//   - ReactorFinal: 循环退出时触发
//
// 生命周期事件分派给 SetGlobal 设置的全局处理器。
//
// # 时钟
//
// 定时器使用 github.com/benbjohnson/clock，测试中注入 clock.NewMock()。
package reactor
