package transport

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"golang.org/x/time/rate"

	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
)

// Listener 入站监听器
//
// 按 AcceptRate / AcceptBurst 限制接受新连接的速率。
type Listener struct {
	engine  *Engine
	ln      net.Listener
	reactor pkgif.Reactor
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

var _ pkgif.Listener = (*Listener)(nil)

func newListener(e *Engine, ln net.Listener, r pkgif.Reactor) *Listener {
	ctx, cancel := context.WithCancel(context.Background())
	burst := e.cfg.AcceptBurst
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if e.cfg.AcceptRate > 0 {
		limit = rate.Limit(e.cfg.AcceptRate)
	}
	return &Listener{
		engine:  e,
		ln:      ln,
		reactor: r,
		limiter: rate.NewLimiter(limit, burst),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Addr 返回监听地址
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close 关闭监听器；幂等
func (l *Listener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	l.cancel()
	l.engine.removeListener(l)
	return l.ln.Close()
}

// serve 接受循环
func (l *Listener) serve() {
	for {
		if err := l.limiter.Wait(l.ctx); err != nil {
			return
		}
		nc, err := l.ln.Accept()
		if err != nil {
			if l.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warn("接受连接失败", "addr", l.Addr().String(), "error", err)
			continue
		}
		if tc, ok := nc.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}
		go l.engine.handleInbound(l.ctx, nc, l.reactor)
	}
}
