package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/yamux"
	mss "github.com/multiformats/go-multistream"
)

// ProtocolID 链路协议标识
const ProtocolID = "/datawire/link/1.0.0"

// negotiate 使用 multistream-select 协商链路协议
//
// 服务端使用 MultistreamMuxer.Negotiate，客户端使用 SelectOneOf。
func negotiate(conn net.Conn, isServer bool, timeout time.Duration) error {
	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("set deadline: %w", err)
		}
		defer conn.SetDeadline(time.Time{})
	}

	if isServer {
		muxer := mss.NewMultistreamMuxer[string]()
		muxer.AddHandler(ProtocolID, nil)
		if _, _, err := muxer.Negotiate(conn); err != nil {
			return fmt.Errorf("server protocol negotiation: %w", err)
		}
		return nil
	}

	selected, err := mss.SelectOneOf([]string{ProtocolID}, conn)
	if err != nil {
		return fmt.Errorf("client protocol negotiation: %w", err)
	}
	if selected != ProtocolID {
		return fmt.Errorf("negotiated protocol %s not supported", selected)
	}
	return nil
}

// upgrade 协商协议并建立 yamux 会话
//
// ctx 取消时关闭底层连接以中断协商。
func (e *Engine) upgrade(ctx context.Context, conn net.Conn, isServer bool) (*yamux.Session, error) {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := negotiate(conn, isServer, e.cfg.HandshakeTimeout); err != nil {
		return nil, err
	}

	var (
		sess *yamux.Session
		err  error
	)
	if isServer {
		sess, err = yamux.Server(conn, e.cfg.yamuxConfig())
	} else {
		sess, err = yamux.Client(conn, e.cfg.yamuxConfig())
	}
	if err != nil {
		return nil, fmt.Errorf("create yamux session: %w", err)
	}
	if ctx.Err() != nil {
		_ = sess.Close()
		return nil, ctx.Err()
	}
	return sess, nil
}
