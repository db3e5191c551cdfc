package types

import "fmt"

// ============================================================================
//                              Role - 链路方向
// ============================================================================

// Role 链路方向（发送端 / 接收端）
type Role uint8

const (
	// RoleReceiver 接收端
	RoleReceiver Role = iota
	// RoleSender 发送端
	RoleSender
)

// String 返回方向的字符串表示
func (r Role) String() string {
	switch r {
	case RoleSender:
		return "sender"
	case RoleReceiver:
		return "receiver"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Opposite 返回对端的方向
func (r Role) Opposite() Role {
	if r == RoleSender {
		return RoleReceiver
	}
	return RoleSender
}

// ParseRole 解析方向字符串
func ParseRole(s string) (Role, error) {
	switch s {
	case "sender", "send", "out":
		return RoleSender, nil
	case "receiver", "recv", "in":
		return RoleReceiver, nil
	default:
		return RoleReceiver, fmt.Errorf("%w: unknown role %q", ErrInvalidLinkSpec, s)
	}
}

// ============================================================================
//                              LinkState - 链路生命周期
// ============================================================================

// LinkState 链路生命周期状态
//
// 状态转换：
//
//	constructed → starting → open → closing → closed
//	starting|open → closing → closed   （显式停止）
//	starting|open → closed             （传输层异常中断）
//
// closed 为终态。
type LinkState int

const (
	// LinkConstructed 已构造（描述符和处理器已绑定，未连接）
	LinkConstructed LinkState = iota
	// LinkStarting 已发起建立
	LinkStarting
	// LinkOpen 对端已确认
	LinkOpen
	// LinkClosing 已请求关闭
	LinkClosing
	// LinkClosed 已关闭
	LinkClosed
)

// String 返回状态字符串表示
func (s LinkState) String() string {
	switch s {
	case LinkConstructed:
		return "constructed"
	case LinkStarting:
		return "starting"
	case LinkOpen:
		return "open"
	case LinkClosing:
		return "closing"
	case LinkClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// CanTransition 判断状态转换是否合法
func (s LinkState) CanTransition(to LinkState) bool {
	switch s {
	case LinkConstructed:
		return to == LinkStarting
	case LinkStarting:
		return to == LinkOpen || to == LinkClosing || to == LinkClosed
	case LinkOpen:
		return to == LinkClosing || to == LinkClosed
	case LinkClosing:
		return to == LinkClosed
	default:
		return false
	}
}

// Active 是否处于 starting 或 open
func (s LinkState) Active() bool {
	return s == LinkStarting || s == LinkOpen
}

// ============================================================================
//                              EndpointState - 协议端点状态
// ============================================================================

// EndpointState 协议端点状态位
//
// 本端和远端各占一组位：UNINIT / ACTIVE / CLOSED。
type EndpointState uint8

const (
	// LocalUninit 本端未打开
	LocalUninit EndpointState = 1 << iota
	// LocalActive 本端已打开
	LocalActive
	// LocalClosed 本端已关闭
	LocalClosed
	// RemoteUninit 远端未打开
	RemoteUninit
	// RemoteActive 远端已打开
	RemoteActive
	// RemoteClosed 远端已关闭
	RemoteClosed
)

const (
	localMask  = LocalUninit | LocalActive | LocalClosed
	remoteMask = RemoteUninit | RemoteActive | RemoteClosed
)

// WithLocal 替换本端状态位
func (s EndpointState) WithLocal(local EndpointState) EndpointState {
	return s&^localMask | local&localMask
}

// WithRemote 替换远端状态位
func (s EndpointState) WithRemote(remote EndpointState) EndpointState {
	return s&^remoteMask | remote&remoteMask
}

// Is 判断是否包含全部指定位
func (s EndpointState) Is(bits EndpointState) bool {
	return s&bits == bits
}

// String 返回状态字符串表示
func (s EndpointState) String() string {
	local := "?"
	switch {
	case s.Is(LocalUninit):
		local = "uninit"
	case s.Is(LocalActive):
		local = "active"
	case s.Is(LocalClosed):
		local = "closed"
	}
	remote := "?"
	switch {
	case s.Is(RemoteUninit):
		remote = "uninit"
	case s.Is(RemoteActive):
		remote = "active"
	case s.Is(RemoteClosed):
		remote = "closed"
	}
	return "local=" + local + ",remote=" + remote
}
