package metrics

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

// TestBandwidthCounter_Totals 测试全局统计
func TestBandwidthCounter_Totals(t *testing.T) {
	bwc := NewBandwidthCounter(clock.NewMock())

	bwc.LogSent("l1", 1024)
	bwc.LogSent("l2", 2048)
	bwc.LogRecv("l1", 512)

	stats := bwc.Totals()
	assert.Equal(t, int64(3072), stats.TotalOut)
	assert.Equal(t, int64(512), stats.TotalIn)

	l1 := bwc.ForLink("l1")
	assert.Equal(t, int64(1024), l1.TotalOut)
	assert.Equal(t, int64(512), l1.TotalIn)
	assert.Equal(t, []string{"l1", "l2"}, bwc.Links())
}

// TestBandwidthCounter_UnnamedLink 测试无链路名只计入全局
func TestBandwidthCounter_UnnamedLink(t *testing.T) {
	bwc := NewBandwidthCounter(clock.NewMock())
	bwc.LogSent("", 10)

	assert.Equal(t, int64(10), bwc.Totals().TotalOut)
	assert.Empty(t, bwc.Links())
	assert.Equal(t, Stats{}, bwc.ForLink("missing"))
}

// TestBandwidthCounter_Reset 测试重置
func TestBandwidthCounter_Reset(t *testing.T) {
	bwc := NewBandwidthCounter(clock.NewMock())
	bwc.LogSent("l1", 10)
	bwc.Reset()

	assert.Equal(t, Stats{}, bwc.Totals())
	assert.Empty(t, bwc.Links())
}

// TestRateMeter_Window 测试滑动窗口
func TestRateMeter_Window(t *testing.T) {
	mock := clock.NewMock()
	r := NewRateMeter(mock)

	r.Add(60)
	assert.Equal(t, 1.0, r.Rate())

	mock.Add(30 * time.Second)
	r.Add(60)
	assert.Equal(t, 2.0, r.Rate())

	// 第一个桶滑出窗口
	mock.Add(31 * time.Second)
	assert.Equal(t, 1.0, r.Rate())

	// 超过整个窗口，速率归零但累计保留
	mock.Add(2 * time.Minute)
	assert.Equal(t, 0.0, r.Rate())
	assert.Equal(t, int64(120), r.Total())

	r.Reset()
	assert.Equal(t, int64(0), r.Total())
	assert.Equal(t, mock.Now(), r.LastUpdate())
}
