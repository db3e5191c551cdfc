package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRole_String 测试方向字符串与解析
func TestRole_String(t *testing.T) {
	assert.Equal(t, "sender", RoleSender.String())
	assert.Equal(t, "receiver", RoleReceiver.String())
	assert.Equal(t, RoleReceiver, RoleSender.Opposite())
	assert.Equal(t, RoleSender, RoleReceiver.Opposite())

	r, err := ParseRole("send")
	require.NoError(t, err)
	assert.Equal(t, RoleSender, r)

	r, err = ParseRole("recv")
	require.NoError(t, err)
	assert.Equal(t, RoleReceiver, r)

	_, err = ParseRole("sideways")
	assert.ErrorIs(t, err, ErrInvalidLinkSpec)
}

// TestLinkState_Transitions 测试链路状态机
func TestLinkState_Transitions(t *testing.T) {
	allowed := []struct{ from, to LinkState }{
		{LinkConstructed, LinkStarting},
		{LinkStarting, LinkOpen},
		{LinkStarting, LinkClosing},
		{LinkStarting, LinkClosed},
		{LinkOpen, LinkClosing},
		{LinkOpen, LinkClosed},
		{LinkClosing, LinkClosed},
	}
	for _, c := range allowed {
		assert.True(t, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}

	// closed 为终态
	for _, to := range []LinkState{LinkConstructed, LinkStarting, LinkOpen, LinkClosing, LinkClosed} {
		assert.False(t, LinkClosed.CanTransition(to), "closed -> %s", to)
	}
	assert.False(t, LinkConstructed.CanTransition(LinkOpen))
	assert.False(t, LinkClosing.CanTransition(LinkOpen))

	assert.True(t, LinkStarting.Active())
	assert.True(t, LinkOpen.Active())
	assert.False(t, LinkClosing.Active())
}

// TestEndpointState 测试端点状态位
func TestEndpointState(t *testing.T) {
	s := LocalUninit | RemoteUninit
	assert.True(t, s.Is(LocalUninit))

	s = s.WithRemote(RemoteActive)
	assert.True(t, s.Is(LocalUninit|RemoteActive))
	assert.False(t, s.Is(RemoteUninit))

	s = s.WithLocal(LocalActive)
	assert.Equal(t, "local=active,remote=active", s.String())

	s = s.WithLocal(LocalClosed).WithRemote(RemoteClosed)
	assert.True(t, s.Is(LocalClosed|RemoteClosed))
	assert.False(t, s.Is(LocalActive))
}
