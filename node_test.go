package datawire

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-datawire/internal/core/transport"
	"github.com/dep2p/go-datawire/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              测试辅助
// ════════════════════════════════════════════════════════════════════════════

// inbox 记录收到的消息和链路事件
type inbox struct {
	msgs   chan *Message
	opens  chan *Event
	closes chan *Event
	errs   chan error
}

func newInbox() *inbox {
	return &inbox{
		msgs:   make(chan *Message, 64),
		opens:  make(chan *Event, 8),
		closes: make(chan *Event, 8),
		errs:   make(chan error, 8),
	}
}

func (b *inbox) OnMessage(ev *Event)         { b.msgs <- ev.Message }
func (b *inbox) OnLinkRemoteOpen(ev *Event)  { b.opens <- ev }
func (b *inbox) OnLinkRemoteClose(ev *Event) { b.closes <- ev }
func (b *inbox) OnLinkError(ev *Event)       { b.errs <- ev.Err }

func startTestNode(t *testing.T, opts ...Option) *Node {
	t.Helper()
	opts = append([]Option{WithPreset(PresetNameTest)}, opts...)
	node, err := Start(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = node.Close() })
	return node
}

func recvMsg(t *testing.T, ch <-chan *Message) *Message {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func recvErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for link error")
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// TestNode_Lifecycle 测试节点生命周期状态与错误
func TestNode_Lifecycle(t *testing.T) {
	node, err := New(WithPreset(PresetNameTest))
	require.NoError(t, err)
	assert.Equal(t, StateIdle, node.State())

	assert.ErrorIs(t, node.Stop(context.Background()), ErrNotStarted)

	require.NoError(t, node.Start(context.Background()))
	assert.Equal(t, StateRunning, node.State())
	assert.ErrorIs(t, node.Start(context.Background()), ErrAlreadyStarted)
	require.Len(t, node.ListenAddrs(), 1)
	assert.NotEqual(t, "127.0.0.1:0", node.ListenAddrs()[0])

	require.NoError(t, node.Stop(context.Background()))
	assert.Equal(t, StateStopped, node.State())
	assert.ErrorIs(t, node.Start(context.Background()), ErrNodeClosed)
	assert.ErrorIs(t, node.Stop(context.Background()), ErrNodeClosed)

	select {
	case <-node.Done():
	case <-time.After(time.Second):
		t.Fatal("reactor still running after Stop")
	}

	assert.NoError(t, node.Close())
	assert.NoError(t, node.Close())
}

// TestNode_InvalidOptions 测试无效选项
func TestNode_InvalidOptions(t *testing.T) {
	_, err := New(WithPreset("nope"))
	assert.Error(t, err)

	_, err = New(WithRoute("outbox/a", nil))
	assert.Error(t, err)

	_, err = New(WithLink("send nowhere"))
	assert.ErrorIs(t, err, ErrInvalidLinkSpec)

	_, err = New(WithConfig(nil))
	assert.Error(t, err)

	_, err = New(WithQuiesceInterval(-time.Second))
	assert.Error(t, err)
}

// TestNode_RegisterResolve 测试路由注册与解析
func TestNode_RegisterResolve(t *testing.T) {
	root := newInbox()
	alice := newInbox()
	node := startTestNode(t, WithRoot(root), WithRoute("outbox/alice", alice))

	assert.Same(t, alice, node.Resolve("outbox/alice"))
	assert.Same(t, root, node.Resolve("outbox/alice?x=1"))
	assert.Same(t, root, node.Resolve("outbox/bob"))

	prefix := newInbox()
	require.NoError(t, node.Register("outbox/", prefix))
	assert.Same(t, prefix, node.Resolve("outbox/bob"))
	assert.Same(t, prefix, node.Resolve("outbox/alice?x=1"))
	assert.Same(t, alice, node.Resolve("outbox/alice"))
}

// ════════════════════════════════════════════════════════════════════════════
//                              端到端
// ════════════════════════════════════════════════════════════════════════════

// TestNode_SendReceive 测试客户端链路发送到服务端路由
func TestNode_SendReceive(t *testing.T) {
	bob := newInbox()
	server := startTestNode(t, WithRoute("inbox/bob", bob))
	addr := server.ListenAddrs()[0]

	client := startTestNode(t)
	out := newInbox()
	l, err := client.Link(fmt.Sprintf("send outbox/alice -> //%s/inbox/bob", addr), WithLinkHandler(out))
	require.NoError(t, err)

	// 打开前发送的消息排队
	require.NoError(t, l.Send(NewTextMessage("hello")))
	require.NoError(t, l.Send(NewTextMessage("world")))

	assert.Equal(t, "hello", recvMsg(t, bob.msgs).Text())
	assert.Equal(t, "world", recvMsg(t, bob.msgs).Text())
	assert.Equal(t, LinkOpen, l.State())

	select {
	case ev := <-bob.opens:
		tgt, ok := ev.Link.RemoteTarget()
		assert.True(t, ok)
		assert.Equal(t, "inbox/bob", tgt)
	default:
		t.Fatal("server handler did not observe LinkRemoteOpen")
	}
}

// TestNode_CloseAfterCount 测试服务端收到 N 条消息后关闭链路
func TestNode_CloseAfterCount(t *testing.T) {
	const n = 3
	var count atomic.Int32
	done := make(chan struct{})
	counter := Processor(func(ev *Event, msg *Message) {
		if count.Add(1) == n {
			_ = ev.Link.Close()
			close(done)
		}
	})
	server := startTestNode(t, WithRoute("inbox/", counter))
	addr := server.ListenAddrs()[0]

	client := startTestNode(t)
	l, err := client.Link(fmt.Sprintf("send //%s/inbox/count", addr), WithLinkHandler(newInbox()))
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, l.Send(NewTextMessage(fmt.Sprint(i))))
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("counter did not reach n")
	}
	require.Eventually(t, func() bool { return l.State() == LinkClosed }, 5*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, l.Send(NewTextMessage("late")), ErrLinkClosed)
}

// TestNode_Rejected 测试没有路由的入站链路被拒绝
func TestNode_Rejected(t *testing.T) {
	server := startTestNode(t, WithRejectUnrouted(true))
	addr := server.ListenAddrs()[0]

	client := startTestNode(t)
	out := newInbox()
	l, err := client.Link(fmt.Sprintf("send //%s/nowhere", addr), WithLinkHandler(out))
	require.NoError(t, err)

	err = recvErr(t, out.errs)
	assert.ErrorIs(t, err, ErrRejected)

	var de *transport.DetachError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "datawire:no-route", de.Reason)
	require.Eventually(t, func() bool { return l.State() == LinkClosed }, 5*time.Second, 10*time.Millisecond)
}

// TestNode_DialFailure 测试建立失败只报告给该链路
func TestNode_DialFailure(t *testing.T) {
	client := startTestNode(t)
	bad := newInbox()
	l, err := client.Link("send //127.0.0.1:1/outbox/a", WithLinkHandler(bad))
	require.NoError(t, err)

	assert.Error(t, recvErr(t, bad.errs))
	require.Eventually(t, func() bool { return l.State() == LinkClosed }, 5*time.Second, 10*time.Millisecond)
}

// TestNode_StopDropsQueuedLink 测试停止节点时排队中的链路不再拨号
func TestNode_StopDropsQueuedLink(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	var dialed atomic.Int32
	go func() {
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			dialed.Add(1)
			_ = nc.Close()
		}
	}()

	node := startTestNode(t)

	// 阻塞反应器，使链路启动停在队列中
	release := make(chan struct{})
	node.Post(func() { <-release })
	l, err := node.Link(fmt.Sprintf("send //%s/outbox/alice", ln.Addr()), WithLinkHandler(newInbox()))
	require.NoError(t, err)

	stopped := make(chan error, 1)
	go func() { stopped <- node.Stop(context.Background()) }()
	require.Eventually(t, node.Container().Closed, 2*time.Second, time.Millisecond)
	close(release)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Equal(t, LinkConstructed, l.State())
	assert.Equal(t, 0, node.ConnectionCount())

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), dialed.Load(), "no connection may be dialed after Stop")
}

// TestNode_StopCancelsPendingLink 测试停止节点时取消握手途中的链路
func TestNode_StopCancelsPendingLink(t *testing.T) {
	// 只接受连接、从不协商的对端
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	accepted := make(chan net.Conn, 4)
	go func() {
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			accepted <- nc
		}
	}()
	t.Cleanup(func() {
		for {
			select {
			case nc := <-accepted:
				_ = nc.Close()
			default:
				return
			}
		}
	})

	node := startTestNode(t)
	out := newInbox()
	l, err := node.Link(fmt.Sprintf("send //%s/outbox/alice", ln.Addr()), WithLinkHandler(out))
	require.NoError(t, err)

	select {
	case nc := <-accepted:
		accepted <- nc
	case <-time.After(5 * time.Second):
		t.Fatal("link did not dial")
	}
	require.Eventually(t, func() bool { return node.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, node.Stop(context.Background()))
	assert.Equal(t, 0, node.ConnectionCount())
	assert.NotEqual(t, LinkOpen, l.State())
	assert.NotEqual(t, LinkStarting, l.State())
	select {
	case err := <-out.errs:
		t.Fatalf("cancelled link reported error: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestNode_PreStartLinks 测试 WithLink 创建的链路在启动时自动建立
func TestNode_PreStartLinks(t *testing.T) {
	bob := newInbox()
	server := startTestNode(t, WithRoute("inbox/bob", bob))
	addr := server.ListenAddrs()[0]

	out := newInbox()
	client := startTestNode(t,
		WithAutoStart(true),
		WithLink(fmt.Sprintf("send //%s/inbox/bob", addr), WithLinkName("pre"), WithLinkHandler(out)),
	)
	links := client.Links()
	require.Len(t, links, 1)
	require.NoError(t, links[0].Send(NewTextMessage("early")))
	assert.Equal(t, "early", recvMsg(t, bob.msgs).Text())
	assert.Equal(t, "pre", links[0].Name())
}

// ════════════════════════════════════════════════════════════════════════════
//                              反应器
// ════════════════════════════════════════════════════════════════════════════

// TestNode_Schedule 测试定时任务
func TestNode_Schedule(t *testing.T) {
	node := startTestNode(t)
	fired := make(chan types.EventType, 1)
	node.Schedule(20*time.Millisecond, HandlerFunc(func(ev *Event) { fired <- ev.Type }))

	select {
	case et := <-fired:
		assert.Equal(t, types.EventTimerTask, et)
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	cancelled := make(chan struct{}, 1)
	task := node.Schedule(50*time.Millisecond, HandlerFunc(func(*Event) { cancelled <- struct{}{} }))
	task.Cancel()
	select {
	case <-cancelled:
		t.Fatal("cancelled task fired")
	case <-time.After(200 * time.Millisecond):
	}
}

// TestNode_Post 测试在反应器线程上执行函数
func TestNode_Post(t *testing.T) {
	node := startTestNode(t)
	ran := make(chan struct{})
	node.Post(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("posted function did not run")
	}
}

// TestHandlers_Chain 测试处理器链按顺序分派
func TestHandlers_Chain(t *testing.T) {
	var order []int
	chain := Handlers{
		HandlerFunc(func(*Event) { order = append(order, 1) }),
		Processor(func(*Event, *Message) { order = append(order, 2) }),
	}
	chain.HandleEvent(&Event{Type: types.EventMessage, Message: NewMessage(nil)})
	assert.Equal(t, []int{1, 2}, order)
}

// TestNodeState_String 测试状态字符串
func TestNodeState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown", NodeState(9).String())
}
