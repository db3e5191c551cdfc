// Package address 实现层级地址模型
//
// 地址语法（线上可见，解析/格式化必须逐字节往返）：
//
//	scheme? "//" host ("/" segment)* ("?" query)?
//
// 不带 "//host" 的地址为相对地址（如 "outbox/alice"），用于路由表键与
// 协议终端地址。以 "/" 结尾的地址为通配（前缀）地址，与同路径不带斜杠
// 的地址是不同的键。
//
// # 祖先序列
//
// Ancestors 生成查找顺序，从最具体到最不具体：
//
//	Ancestors("a/b/c") = ["a/b/c", "a/b/", "a/b", "a/", "a", ""]
//
// 查询串（?...）在前缀分解前剥离，但带查询串的原始地址总是第一个候选。
package address
