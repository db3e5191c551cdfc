// Package linkspec 解析链路描述字符串
//
// # 语法
//
//	[send|recv] <local> [-> <remote> | <- <remote>] [key=value ...]
//
// 方向关键字可省略：出现 "->" 视为发送端，出现 "<-" 视为接收端，
// 两者都没有时默认接收端。关键字与箭头方向冲突时解析失败。
//
// 本端或对端地址至少有一个是带 //host 的绝对地址，链路据此拨号。
// 选项 name=... 指定链路名称，其余选项原样透传给协议引擎。
//
// # 示例
//
//	send //127.0.0.1:5672/outbox/alice
//	recv //broker/inbox/bob <- //peer/outbox/alice credit=10
//	//127.0.0.1:5672/outbox/alice -> //broker/inbox name=alice-out
package linkspec
