package metrics

import (
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
)

// BandwidthCounter 带宽计数器
//
// 跟踪全部链路及每条链路收发的帧字节数。
type BandwidthCounter struct {
	clk clock.Clock

	totalIn  *RateMeter
	totalOut *RateMeter

	mu    sync.RWMutex
	links map[string]*linkMeter
}

type linkMeter struct {
	in  *RateMeter
	out *RateMeter
}

// NewBandwidthCounter 创建带宽计数器
func NewBandwidthCounter(clk clock.Clock) *BandwidthCounter {
	if clk == nil {
		clk = clock.New()
	}
	return &BandwidthCounter{
		clk:      clk,
		totalIn:  NewRateMeter(clk),
		totalOut: NewRateMeter(clk),
		links:    make(map[string]*linkMeter),
	}
}

func (b *BandwidthCounter) link(name string) *linkMeter {
	b.mu.RLock()
	m := b.links[name]
	b.mu.RUnlock()
	if m != nil {
		return m
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if m = b.links[name]; m == nil {
		m = &linkMeter{in: NewRateMeter(b.clk), out: NewRateMeter(b.clk)}
		b.links[name] = m
	}
	return m
}

// LogSent 记录链路发送的字节数
func (b *BandwidthCounter) LogSent(link string, n int64) {
	b.totalOut.Add(n)
	if link != "" {
		b.link(link).out.Add(n)
	}
}

// LogRecv 记录链路接收的字节数
func (b *BandwidthCounter) LogRecv(link string, n int64) {
	b.totalIn.Add(n)
	if link != "" {
		b.link(link).in.Add(n)
	}
}

// Totals 返回全部链路的统计
func (b *BandwidthCounter) Totals() Stats {
	return Stats{
		TotalIn:  b.totalIn.Total(),
		TotalOut: b.totalOut.Total(),
		RateIn:   b.totalIn.Rate(),
		RateOut:  b.totalOut.Rate(),
	}
}

// ForLink 返回单条链路的统计
func (b *BandwidthCounter) ForLink(link string) Stats {
	b.mu.RLock()
	m := b.links[link]
	b.mu.RUnlock()
	if m == nil {
		return Stats{}
	}
	return Stats{
		TotalIn:  m.in.Total(),
		TotalOut: m.out.Total(),
		RateIn:   m.in.Rate(),
		RateOut:  m.out.Rate(),
	}
}

// Links 返回有统计的链路名称（已排序）
func (b *BandwidthCounter) Links() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.links))
	for name := range b.links {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Forget 删除链路统计（链路关闭后调用）
func (b *BandwidthCounter) Forget(link string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.links, link)
}

// Reset 重置所有统计
func (b *BandwidthCounter) Reset() {
	b.totalIn.Reset()
	b.totalOut.Reset()
	b.mu.Lock()
	b.links = make(map[string]*linkMeter)
	b.mu.Unlock()
}
