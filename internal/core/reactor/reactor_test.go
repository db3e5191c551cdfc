package reactor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-datawire/internal/core/event"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/types"
)

// lifecycleRecorder 记录生命周期事件
type lifecycleRecorder struct {
	mu       sync.Mutex
	events   []types.EventType
	quiesced chan struct{}
}

func newRecorder() *lifecycleRecorder {
	return &lifecycleRecorder{quiesced: make(chan struct{}, 16)}
}

func (l *lifecycleRecorder) record(ev *pkgif.Event) {
	l.mu.Lock()
	l.events = append(l.events, ev.Type)
	l.mu.Unlock()
}

func (l *lifecycleRecorder) OnReactorInit(ev *pkgif.Event)  { l.record(ev) }
func (l *lifecycleRecorder) OnReactorFinal(ev *pkgif.Event) { l.record(ev) }
func (l *lifecycleRecorder) OnReactorQuiesced(ev *pkgif.Event) {
	l.record(ev)
	l.quiesced <- struct{}{}
}
func (l *lifecycleRecorder) OnMessage(ev *pkgif.Event) { l.record(ev) }

func (l *lifecycleRecorder) snapshot() []types.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.EventType(nil), l.events...)
}

func (l *lifecycleRecorder) count(t types.EventType) int {
	n := 0
	for _, e := range l.snapshot() {
		if e == t {
			n++
		}
	}
	return n
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for signal")
	}
}

func startReactor(t *testing.T, r *Reactor) {
	t.Helper()
	go func() { _ = r.Run(context.Background()) }()
	t.Cleanup(func() {
		r.Stop()
		<-r.Done()
	})
}

// TestReactor_Lifecycle 测试 init / quiesced / final 顺序
func TestReactor_Lifecycle(t *testing.T) {
	r := New(DefaultConfig(), clock.NewMock())
	rec := newRecorder()
	r.SetGlobal(rec)

	go func() { _ = r.Run(context.Background()) }()
	waitSignal(t, rec.quiesced)

	r.Stop()
	<-r.Done()

	got := rec.snapshot()
	require.NotEmpty(t, got)
	assert.Equal(t, types.EventReactorInit, got[0])
	assert.Equal(t, types.EventReactorFinal, got[len(got)-1])
	assert.Equal(t, 1, rec.count(types.EventReactorInit))
	assert.Equal(t, 1, rec.count(types.EventReactorQuiesced))
	assert.Equal(t, 1, rec.count(types.EventReactorFinal))
	assert.False(t, r.Running())
}

// TestReactor_QuiescedOncePerIdle 测试每次进入空闲只触发一次 quiesced
func TestReactor_QuiescedOncePerIdle(t *testing.T) {
	r := New(DefaultConfig(), clock.NewMock())
	rec := newRecorder()
	r.SetGlobal(rec)
	startReactor(t, r)

	waitSignal(t, rec.quiesced)

	ran := make(chan struct{})
	r.Post(func() { close(ran) })
	waitSignal(t, ran)
	waitSignal(t, rec.quiesced)

	// 没有新工作时不会再次触发
	select {
	case <-rec.quiesced:
		t.Fatal("unexpected quiesced without work")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 2, rec.count(types.EventReactorQuiesced))
}

// TestReactor_Emit 测试事件投递给全局处理器
func TestReactor_Emit(t *testing.T) {
	r := New(DefaultConfig(), clock.NewMock())
	rec := newRecorder()
	got := make(chan *pkgif.Event, 1)
	r.SetGlobal(rec, event.MessageFunc(func(ev *pkgif.Event) { got <- ev }))
	startReactor(t, r)

	r.Emit(&pkgif.Event{Type: types.EventMessage, Message: types.NewTextMessage("hi")})

	select {
	case ev := <-got:
		assert.Equal(t, "hi", ev.Message.Text())
		assert.Same(t, r, ev.Reactor)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
	assert.Eventually(t, func() bool { return rec.count(types.EventMessage) == 1 }, time.Second, 5*time.Millisecond)
}

// TestReactor_Schedule 测试定时任务不早于延迟触发
func TestReactor_Schedule(t *testing.T) {
	mock := clock.NewMock()
	r := New(DefaultConfig(), mock)
	rec := newRecorder()
	r.SetGlobal(rec)

	start := mock.Now()
	fired := make(chan time.Time, 1)
	task := r.Schedule(5*time.Second, event.TimerFunc(func(ev *pkgif.Event) {
		assert.Equal(t, types.EventTimerTask, ev.Type)
		fired <- mock.Now()
	}))
	assert.Equal(t, start.Add(5*time.Second), task.Deadline())

	startReactor(t, r)
	waitSignal(t, rec.quiesced)

	select {
	case <-fired:
		t.Fatal("timer fired before its deadline")
	default:
	}

	var at time.Time
	require.Eventually(t, func() bool {
		select {
		case at = <-fired:
			return true
		default:
			mock.Add(500 * time.Millisecond)
			return false
		}
	}, 2*time.Second, 2*time.Millisecond)

	assert.False(t, at.Before(start.Add(5*time.Second)))
}

// TestReactor_ScheduleOrder 测试相同截止时间按调度顺序触发
func TestReactor_ScheduleOrder(t *testing.T) {
	mock := clock.NewMock()
	r := New(DefaultConfig(), mock)

	var (
		mu    sync.Mutex
		order []int
	)
	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		r.Schedule(time.Second, event.TimerFunc(func(*pkgif.Event) {
			mu.Lock()
			order = append(order, i)
			if len(order) == 3 {
				close(done)
			}
			mu.Unlock()
		}))
	}
	r.Schedule(0, event.TimerFunc(func(*pkgif.Event) {
		mu.Lock()
		order = append(order, -1)
		mu.Unlock()
	}))

	mock.Add(time.Second)
	startReactor(t, r)
	waitSignal(t, done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{-1, 0, 1, 2}, order)
}

// TestTask_Cancel 测试取消定时任务
func TestTask_Cancel(t *testing.T) {
	mock := clock.NewMock()
	r := New(DefaultConfig(), mock)

	var fired atomic.Int32
	task := r.Schedule(time.Second, event.TimerFunc(func(*pkgif.Event) { fired.Add(1) }))
	task.Cancel()
	task.Cancel()

	_, timers := r.Pending()
	assert.Equal(t, 0, timers)

	mock.Add(2 * time.Second)
	startReactor(t, r)

	ran := make(chan struct{})
	r.Post(func() { close(ran) })
	waitSignal(t, ran)
	assert.Equal(t, int32(0), fired.Load())
}

// TestReactor_QuiesceInterval 测试空闲间隔重复触发 quiesced
func TestReactor_QuiesceInterval(t *testing.T) {
	mock := clock.NewMock()
	cfg := DefaultConfig()
	cfg.QuiesceInterval = time.Second
	r := New(cfg, mock)
	rec := newRecorder()
	r.SetGlobal(rec)
	startReactor(t, r)

	waitSignal(t, rec.quiesced)
	require.Eventually(t, func() bool {
		select {
		case <-rec.quiesced:
			return true
		default:
			mock.Add(250 * time.Millisecond)
			return false
		}
	}, 2*time.Second, 2*time.Millisecond)
}

// TestReactor_RunTwice 测试重复运行
func TestReactor_RunTwice(t *testing.T) {
	r := New(DefaultConfig(), clock.NewMock())
	rec := newRecorder()
	r.SetGlobal(rec)

	go func() { _ = r.Run(context.Background()) }()
	waitSignal(t, rec.quiesced)
	assert.ErrorIs(t, r.Run(context.Background()), ErrAlreadyRunning)

	r.Stop()
	<-r.Done()
	assert.ErrorIs(t, r.Run(context.Background()), ErrStopped)
}

// TestReactor_ContextCancel 测试 ctx 取消退出
func TestReactor_ContextCancel(t *testing.T) {
	r := New(DefaultConfig(), clock.NewMock())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("reactor did not exit")
	}
}

// TestReactor_StopDrainsPosted 测试停止前执行完已投递任务
func TestReactor_StopDrainsPosted(t *testing.T) {
	r := New(DefaultConfig(), clock.NewMock())
	var n atomic.Int32

	r.Stop()
	for i := 0; i < 5; i++ {
		r.Post(func() { n.Add(1) })
	}
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, int32(5), n.Load())
}

// TestReactor_PanicRecovered 测试处理器 panic 不中断循环
func TestReactor_PanicRecovered(t *testing.T) {
	r := New(DefaultConfig(), clock.NewMock())
	startReactor(t, r)

	r.Post(func() { panic("boom") })
	ran := make(chan struct{})
	r.Post(func() { close(ran) })
	waitSignal(t, ran)
	assert.True(t, r.Running())
}
