// Package transport 实现链路协议引擎
//
// 一个连接 = TCP 连接 → multistream-select 协商 /datawire/link/1.0.0 → yamux 会话。
// 每条链路占用会话上的一个流，流上传输长度前缀的 CBOR 帧：
//
//	attach    打开链路，携带名称、方向、源/目标地址
//	detach    关闭链路，可携带拒绝原因
//	transfer  传输一条消息
//
// # 出站链路
//
// OpenLink 不阻塞：拨号、握手、发送 attach 在后台完成。对端回复 attach
// 产生 EventLinkRemoteOpen；对端回复 detach 或拨号失败产生 EventLinkError，
// 随后连接关闭产生 EventTransportClosed。每条出站链路独占一个连接。
//
// # 入站链路
//
// Listen 接受连接（按速率限制），每个流上收到的 attach 产生一个
// 服务端链路和 EventLinkRemoteOpen。处理器调用 Link.Open 接受，
// 或 Link.CloseWithError 拒绝。
//
// 所有事件通过 Reactor.Emit 送入反应器，同一链路上的事件保持线上顺序。
package transport
