// Package container 实现地址路由容器
//
// 容器位于反应器与链路协议引擎之间，负责三件事：
//
// 1. 路由
//   - 地址 → 处理器映射（routing.Table），按祖先序列查找
//   - 全部未命中时回退到根处理器
//
// 2. 链路生命周期
//   - CreateLink 解析链路描述并绑定本端地址的处理器
//   - Start / Stop 按创建顺序批量建立或关闭链路
//   - 单个链路失败只报告给该链路的处理器
//
// 3. 事件分派
//   - LinkRemoteOpen: 按对端声明的地址解析处理器并终身绑定
//   - ReactorQuiesced: 广播给根处理器和全部已注册处理器，各一次
//   - TransportClosed: 释放连接，每个事件一次
//
// # 链路状态
//
//	constructed → starting → open → closing → closed
//	starting|open → closed   （传输层异常中断或建立失败）
//
// closed 为终态。
//
// # 快速开始
//
//	table := routing.NewTable(root)
//	c := container.New(container.DefaultConfig(), table, engine, nil)
//	r.SetGlobal(c)
//
//	_ = c.Register("outbox/alice", alice)
//	link, _ := c.CreateLink("send //broker:5672/outbox/alice")
//	_ = c.Start(r)
//
// 容器自身作为反应器的全局处理器接收全部事件；握手参与者
// （Handshaker）在容器分派之后处理每个事件，负责在本端打开
// 对端已打开的链路、关闭对端已关闭的链路。
package container
