// Package routing 实现地址路由表
//
// # 核心功能
//
// 1. 注册 (Register)
//   - 精确地址字符串 → 处理器
//   - 后写者胜：重复注册同一地址会覆盖，注册顺序保持首次注册的位置
//   - 非法地址在注册时立即失败，不会部分写入
//
// 2. 解析 (Resolve)
//   - 按 address.Ancestors 的顺序逐个候选查找，首个命中即返回
//   - 全部未命中时返回根处理器（可能为 nil）
//   - 纯函数，不修改状态，不返回错误
//
// # 示例
//
//	table := routing.NewTable(root)
//	table.Register("outbox/alice", h1)
//	table.Register("outbox/", wildcard)
//
//	table.Resolve("outbox/alice")     // h1
//	table.Resolve("outbox/bob")       // wildcard
//	table.Resolve("inbox/bob")        // root
//
// # 注意事项
//
// 1. 线程安全: 注册与解析由读写锁串行化
// 2. 复杂度: 每次解析 O(地址深度)，不做缓存
// 3. 所有权: 路由表只持有处理器引用，不管理其生命周期
package routing
