package reactor

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-datawire/internal/core/event"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/lib/log"
	"github.com/dep2p/go-datawire/pkg/types"
)

var logger = log.Logger("core/reactor")

const (
	stateIdle int32 = iota
	stateRunning
	stateStopped
)

// Reactor 单线程协作式事件循环
type Reactor struct {
	clk clock.Clock
	cfg Config

	mu     sync.Mutex
	queue  []func()
	timers taskHeap
	seq    uint64
	global []pkgif.Handler

	wake     chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	state    atomic.Int32
}

var _ pkgif.Reactor = (*Reactor)(nil)

// New 创建反应器，clk 为 nil 时使用系统时钟
func New(cfg Config, clk clock.Clock) *Reactor {
	if clk == nil {
		clk = clock.New()
	}
	return &Reactor{
		clk:    clk,
		cfg:    cfg.normalize(),
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// ============================================================================
//                              外部接口
// ============================================================================

// SetGlobal 设置全局处理器
//
// 生命周期事件和 Emit 的事件按顺序分派给全局处理器。
func (r *Reactor) SetGlobal(handlers ...pkgif.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = append([]pkgif.Handler(nil), handlers...)
}

// AddGlobal 追加全局处理器
func (r *Reactor) AddGlobal(h pkgif.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = append(r.global, h)
}

// Schedule 在 delay 之后向 handler 投递 TimerTask 事件
func (r *Reactor) Schedule(delay time.Duration, handler pkgif.Handler) pkgif.Task {
	if delay < 0 {
		delay = 0
	}
	r.mu.Lock()
	r.seq++
	t := &Task{
		r:        r,
		deadline: r.clk.Now().Add(delay),
		seq:      r.seq,
		handler:  handler,
		index:    -1,
	}
	heap.Push(&r.timers, t)
	r.mu.Unlock()

	r.wakeup()
	return t
}

// Post 在反应器线程上执行 fn
func (r *Reactor) Post(fn func()) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.queue = append(r.queue, fn)
	r.mu.Unlock()
	r.wakeup()
}

// Emit 将事件投递给全局处理器
func (r *Reactor) Emit(ev *pkgif.Event) {
	if ev == nil {
		return
	}
	if ev.Reactor == nil {
		ev.Reactor = r
	}
	r.Post(func() { r.dispatchGlobal(ev) })
}

// Now 返回反应器时钟的当前时间
func (r *Reactor) Now() time.Time {
	return r.clk.Now()
}

// Clock 返回反应器时钟
func (r *Reactor) Clock() clock.Clock {
	return r.clk
}

// Stop 请求反应器退出；幂等
//
// 已投递的任务在退出前执行完，未到期的定时任务被丢弃。
func (r *Reactor) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Done 返回循环退出时关闭的通道
func (r *Reactor) Done() <-chan struct{} {
	return r.done
}

// Running 是否正在运行
func (r *Reactor) Running() bool {
	return r.state.Load() == stateRunning
}

// Pending 返回待执行的投递任务数和定时任务数
func (r *Reactor) Pending() (posted, timers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue), len(r.timers)
}

// ============================================================================
//                              事件循环
// ============================================================================

// Run 在当前 goroutine 上运行事件循环，直到 Stop 或 ctx 取消
//
// 每个反应器只能运行一次。
func (r *Reactor) Run(ctx context.Context) error {
	if !r.state.CompareAndSwap(stateIdle, stateRunning) {
		if r.state.Load() == stateStopped {
			return ErrStopped
		}
		return ErrAlreadyRunning
	}
	defer func() {
		r.state.Store(stateStopped)
		close(r.done)
	}()

	logger.Debug("反应器启动")
	r.dispatchGlobal(&pkgif.Event{Type: types.EventReactorInit, Reactor: r})

	quiesced := false
	for !r.stopping(ctx) {
		if r.runOnce() {
			quiesced = false
			continue
		}
		if !quiesced {
			quiesced = true
			r.dispatchGlobal(&pkgif.Event{Type: types.EventReactorQuiesced, Reactor: r})
			continue
		}
		idle, ok := r.wait(ctx)
		if !ok {
			break
		}
		if idle {
			quiesced = false
		}
	}

	// 退出前执行完已投递的任务
	for r.drainQueue() {
	}
	r.dispatchGlobal(&pkgif.Event{Type: types.EventReactorFinal, Reactor: r})
	logger.Debug("反应器退出")

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (r *Reactor) stopping(ctx context.Context) bool {
	select {
	case <-r.stopCh:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// runOnce 执行一批投递任务和全部到期定时任务，返回是否有工作执行
func (r *Reactor) runOnce() bool {
	r.mu.Lock()
	n := min(len(r.queue), r.cfg.MaxBatch)
	batch := make([]func(), n)
	copy(batch, r.queue[:n])
	r.queue = append(r.queue[:0], r.queue[n:]...)

	now := r.clk.Now()
	var due []*Task
	for len(r.timers) > 0 && !r.timers[0].deadline.After(now) {
		due = append(due, heap.Pop(&r.timers).(*Task))
	}
	r.mu.Unlock()

	for _, fn := range batch {
		r.safe(fn)
	}
	for _, t := range due {
		r.fire(t)
	}
	return len(batch)+len(due) > 0
}

func (r *Reactor) drainQueue() bool {
	r.mu.Lock()
	batch := r.queue
	r.queue = nil
	r.mu.Unlock()

	for _, fn := range batch {
		r.safe(fn)
	}
	return len(batch) > 0
}

// wait 阻塞到有新工作、定时任务到期或退出
//
// idle 为 true 表示空闲间隔到期。ok 为 false 表示应退出循环。
func (r *Reactor) wait(ctx context.Context) (idle, ok bool) {
	r.mu.Lock()
	d := time.Duration(-1)
	if len(r.timers) > 0 {
		d = r.timers[0].deadline.Sub(r.clk.Now())
		if d <= 0 {
			r.mu.Unlock()
			return false, true
		}
	}
	r.mu.Unlock()

	useIdle := false
	if iv := r.cfg.QuiesceInterval; iv > 0 && (d < 0 || iv < d) {
		d, useIdle = iv, true
	}

	var timerC <-chan time.Time
	if d > 0 {
		tm := r.clk.Timer(d)
		defer tm.Stop()
		timerC = tm.C
	}

	select {
	case <-r.wake:
		return false, true
	case <-timerC:
		return useIdle, true
	case <-ctx.Done():
		return false, false
	case <-r.stopCh:
		return false, false
	}
}

func (r *Reactor) wakeup() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Reactor) fire(t *Task) {
	r.mu.Lock()
	canceled := t.canceled
	r.mu.Unlock()
	if canceled {
		return
	}
	ev := &pkgif.Event{Type: types.EventTimerTask, Reactor: r, Context: t}
	r.safe(func() {
		if !event.Dispatch(ev, t.handler) {
			logger.Debug("定时任务处理器不支持 TimerTask", "deadline", t.deadline)
		}
	})
}

func (r *Reactor) dispatchGlobal(ev *pkgif.Event) {
	r.mu.Lock()
	handlers := append([]pkgif.Handler(nil), r.global...)
	r.mu.Unlock()

	for _, h := range handlers {
		r.safe(func() { event.Dispatch(ev, h) })
	}
}

// safe 执行 fn，处理器 panic 只记录日志，不中断事件循环
func (r *Reactor) safe(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			logger.Error("处理器 panic", "panic", fmt.Sprint(v))
		}
	}()
	fn()
}
