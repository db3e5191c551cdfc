// Package datawire 提供按地址路由的链路消息节点
//
// datawire 在单线程反应器之前放置一个地址路由容器：
// 应用把处理器注册到层级地址上，容器把协议引擎产生的链路事件
// 按对端声明的地址分派给最具体的处理器。
//
// # 核心概念
//
//   - Node: 节点，用户交互的主入口（反应器 + 传输引擎 + 容器）
//   - Address: "/" 分隔的层级地址，结尾 "/" 表示通配前缀
//   - Handler: 任意值，按能力接口（OnMessage、OnReactorQuiesced 等）分派
//   - Link: 发送端或接收端链路，创建时绑定处理器
//
// # 快速开始
//
//	// 服务端：在 outbox/alice 上接收消息
//	node, err := datawire.New(
//	    datawire.WithListenAddrs("127.0.0.1:5672"),
//	    datawire.WithRoute("outbox/alice", datawire.Processor(func(ev *datawire.Event, msg *datawire.Message) {
//	        fmt.Println(msg.Text())
//	    })),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := node.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
//	// 客户端：向 outbox/alice 发送
//	link, _ := client.Link("send //127.0.0.1:5672/outbox/alice")
//	_ = link.Send(datawire.NewTextMessage("woof"))
//
// # 地址解析
//
// "a/b/c" 依次尝试 "a/b/c"、"a/b/"、"a/b"、"a/"、"a"、""，
// 全部未命中时回退到根处理器（WithRoot）。
//
// # 事件
//
// 处理器只需实现关心的事件方法：
//
//   - OnReactorInit / OnReactorQuiesced / OnReactorFinal: 广播给根处理器和全部已注册处理器
//   - OnLinkRemoteOpen / OnMessage / OnLinkRemoteClose: 发给链路绑定的处理器
//   - OnLinkError: 链路建立失败，只发给该链路的处理器
//   - OnTimerTask: Reactor().Schedule 到期
package datawire
