// Package interfaces 定义 datawire 的公共接口
//
// 一个接口文件对应一个实现目录：
//   - handler.go   - 处理器能力接口（按事件类型拆分，处理器可只实现子集）
//   - event.go     - Event 事件载体
//   - reactor.go   - 单线程协作式反应器（internal/core/reactor）
//   - engine.go    - 协议引擎适配器（internal/core/transport）
//   - protocol.go  - 路由表（internal/core/routing）
//
// # 依赖方向
//
//	datawire → container → routing / reactor / transport → pkg/interfaces → pkg/types
//
// 禁止反向依赖。
package interfaces
