// Package metrics 提供分派与链路指标
//
// 指标注册在私有的 Prometheus Registry 上，不污染全局默认注册表：
//
//	datawire_dispatch_total{event}          分派的事件数
//	datawire_resolve_total{result}          地址解析结果（hit / root / miss）
//	datawire_links{state}                   各状态的链路数
//	datawire_connections_freed_total        释放的连接数
//	datawire_quiesced_total                 quiesced 广播次数
//	datawire_frame_bytes_total{direction}   链路帧字节数
//
// 组件只依赖 Reporter 接口；指标关闭时注入 Nop。
//
// # 带宽
//
// BandwidthCounter 按链路统计收发字节，并用 RateMeter 计算最近 60 秒的平均速率：
//
//	counter := metrics.NewBandwidthCounter(clock.New())
//	counter.LogSent("outbox/alice", 512)
//	stats := counter.Totals()
//
// # Fx 模块
//
//	app := fx.New(
//	    metrics.Module(),
//	    fx.Invoke(func(r metrics.Reporter) {
//	        r.Quiesced()
//	    }),
//	)
package metrics
