package metrics

import (
	"github.com/dep2p/go-datawire/pkg/types"
)

// Reporter 组件记录指标的接口
type Reporter interface {
	// ObserveDispatch 记录一次事件分派
	ObserveDispatch(t types.EventType)

	// ObserveResolve 记录一次地址解析结果（hit / root / miss）
	ObserveResolve(result string)

	// LinkTransition 记录链路状态变化
	LinkTransition(from, to types.LinkState)

	// ConnectionFreed 记录一次连接释放
	ConnectionFreed()

	// Quiesced 记录一次 quiesced 广播
	Quiesced()

	// LogSent 记录链路发送字节数
	LogSent(link string, n int64)

	// LogRecv 记录链路接收字节数
	LogRecv(link string, n int64)

	// LinkClosed 链路关闭，清理按链路的统计
	LinkClosed(link string)
}

// Nop 不记录任何指标
type Nop struct{}

var _ Reporter = Nop{}

func (Nop) ObserveDispatch(types.EventType)                 {}
func (Nop) ObserveResolve(string)                           {}
func (Nop) LinkTransition(types.LinkState, types.LinkState) {}
func (Nop) ConnectionFreed()                                {}
func (Nop) Quiesced()                                       {}
func (Nop) LogSent(string, int64)                           {}
func (Nop) LogRecv(string, int64)                           {}
func (Nop) LinkClosed(string)                               {}
