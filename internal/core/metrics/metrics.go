package metrics

import (
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-datawire/pkg/lib/log"
	"github.com/dep2p/go-datawire/pkg/types"
)

var logger = log.Logger("core/metrics")

// Metrics Prometheus 指标集合
type Metrics struct {
	registry *prometheus.Registry

	dispatch        *prometheus.CounterVec
	resolve         *prometheus.CounterVec
	links           *prometheus.GaugeVec
	connectionsFree prometheus.Counter
	quiesced        prometheus.Counter
	frameBytes      *prometheus.CounterVec

	bandwidth *BandwidthCounter
}

var _ Reporter = (*Metrics)(nil)

// New 创建指标集合并注册到私有 Registry
func New(namespace string, clk clock.Clock) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Events dispatched to handlers, by event type.",
		}, []string{"event"}),
		resolve: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Address resolutions, by result.",
		}, []string{"result"}),
		links: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links",
			Help:      "Links by lifecycle state.",
		}, []string{"state"}),
		connectionsFree: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_freed_total",
			Help:      "Connections released after transport close.",
		}),
		quiesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiesced_total",
			Help:      "Reactor quiesced broadcasts.",
		}),
		frameBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_bytes_total",
			Help:      "Link frame bytes, by direction.",
		}, []string{"direction"}),
		bandwidth: NewBandwidthCounter(clk),
	}

	m.registry.MustRegister(
		m.dispatch,
		m.resolve,
		m.links,
		m.connectionsFree,
		m.quiesced,
		m.frameBytes,
		collectors.NewGoCollector(),
	)

	// 预创建标签，未发生的事件也以 0 暴露
	for _, t := range types.AllEventTypes() {
		m.dispatch.WithLabelValues(t.String())
	}
	for _, r := range []string{"hit", "root", "miss"} {
		m.resolve.WithLabelValues(r)
	}
	for s := types.LinkConstructed; s <= types.LinkClosed; s++ {
		m.links.WithLabelValues(s.String())
	}
	return m
}

// ObserveDispatch 记录一次事件分派
func (m *Metrics) ObserveDispatch(t types.EventType) {
	m.dispatch.WithLabelValues(t.String()).Inc()
}

// ObserveResolve 记录一次地址解析结果
func (m *Metrics) ObserveResolve(result string) {
	m.resolve.WithLabelValues(result).Inc()
}

// LinkTransition 记录链路状态变化
//
// 新建链路以 from == to == LinkConstructed 报告。
func (m *Metrics) LinkTransition(from, to types.LinkState) {
	if from != to {
		m.links.WithLabelValues(from.String()).Dec()
	}
	m.links.WithLabelValues(to.String()).Inc()
}

// ConnectionFreed 记录一次连接释放
func (m *Metrics) ConnectionFreed() {
	m.connectionsFree.Inc()
}

// Quiesced 记录一次 quiesced 广播
func (m *Metrics) Quiesced() {
	m.quiesced.Inc()
}

// LogSent 记录链路发送字节数
func (m *Metrics) LogSent(link string, n int64) {
	m.frameBytes.WithLabelValues("out").Add(float64(n))
	m.bandwidth.LogSent(link, n)
}

// LogRecv 记录链路接收字节数
func (m *Metrics) LogRecv(link string, n int64) {
	m.frameBytes.WithLabelValues("in").Add(float64(n))
	m.bandwidth.LogRecv(link, n)
}

// LinkClosed 清理按链路的带宽统计
func (m *Metrics) LinkClosed(link string) {
	m.bandwidth.Forget(link)
}

// Bandwidth 返回带宽计数器
func (m *Metrics) Bandwidth() *BandwidthCounter {
	return m.bandwidth
}

// Registry 返回私有 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 /metrics 的 HTTP 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: promErrorLog{},
	})
}

// promErrorLog 将 promhttp 错误转到组件日志
type promErrorLog struct{}

func (promErrorLog) Println(v ...any) {
	logger.Warn("指标导出失败", "error", v)
}
