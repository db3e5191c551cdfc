package linkspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-datawire/pkg/types"
)

// TestParse_Sender 测试发送端描述
func TestParse_Sender(t *testing.T) {
	d, err := Parse("send //127.0.0.1:5672/outbox/alice")
	require.NoError(t, err)

	assert.Equal(t, types.RoleSender, d.Role)
	assert.Equal(t, "//127.0.0.1:5672/outbox/alice", d.Local)
	assert.Empty(t, d.Remote)
	assert.Equal(t, "127.0.0.1:5672", d.Host)
	assert.Equal(t, "outbox/alice", d.Source)
	assert.Equal(t, "outbox/alice", d.Target)
}

// TestParse_ReceiverWithRemote 测试带对端的接收端
func TestParse_ReceiverWithRemote(t *testing.T) {
	d, err := Parse("recv inbox/bob <- //peer/outbox/alice credit=10")
	require.NoError(t, err)

	assert.Equal(t, types.RoleReceiver, d.Role)
	assert.Equal(t, "inbox/bob", d.Local)
	assert.Equal(t, "//peer/outbox/alice", d.Remote)
	assert.Equal(t, "peer:5672", d.Host)
	assert.Equal(t, "outbox/alice", d.Source)
	assert.Equal(t, "inbox/bob", d.Target)

	v, ok := d.Option("credit")
	assert.True(t, ok)
	assert.Equal(t, "10", v)
}

// TestParse_ArrowInfersRole 测试由箭头推断方向
func TestParse_ArrowInfersRole(t *testing.T) {
	d, err := Parse("//a/x -> //b/y")
	require.NoError(t, err)
	assert.Equal(t, types.RoleSender, d.Role)
	assert.Equal(t, "b:5672", d.Host)
	assert.Equal(t, "x", d.Source)
	assert.Equal(t, "y", d.Target)

	d, err = Parse("//a/x <- //b/y")
	require.NoError(t, err)
	assert.Equal(t, types.RoleReceiver, d.Role)
}

// TestParse_DefaultReceiver 测试默认方向
func TestParse_DefaultReceiver(t *testing.T) {
	d, err := Parse("//host/inbox")
	require.NoError(t, err)
	assert.Equal(t, types.RoleReceiver, d.Role)
	assert.Equal(t, "inbox", d.Target)
}

// TestParse_Name 测试 name 选项
func TestParse_Name(t *testing.T) {
	d, err := Parse("send //h/q name=out-1")
	require.NoError(t, err)
	assert.Equal(t, "out-1", d.Name)
	assert.Nil(t, d.Options)
}

// TestParseWith_Extra 测试额外选项覆盖
func TestParseWith_Extra(t *testing.T) {
	d, err := ParseWith("send //h/q a=1 b=2", map[string]string{"b": "3", "name": "n"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "3"}, d.Options)
	assert.Equal(t, "n", d.Name)
}

// TestParse_Query 测试查询串保留在终端地址中
func TestParse_Query(t *testing.T) {
	d, err := Parse("send //h/a/b?x=1")
	require.NoError(t, err)
	assert.Equal(t, "a/b?x=1", d.Source)
}

// TestParse_RoundTrip 测试规范化字符串可再次解析
func TestParse_RoundTrip(t *testing.T) {
	d := MustParse("recv //h/in <- //p/out k=v")
	again, err := Parse(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

// TestParse_Invalid 测试非法描述
func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":          "   ",
		"role only":      "send",
		"no host":        "send outbox/alice",
		"dangling arrow": "send //h/a ->",
		"conflict":       "recv //h/a -> //h/b",
		"bare token":     "send //h/a extra",
		"empty key":      "send //h/a =v",
		"empty host":     "send ///a",
		"option first":   "send k=v",
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(spec)
			assert.ErrorIs(t, err, ErrInvalidLinkSpec)
		})
	}
}

// TestMustParse_Panics 测试 MustParse
func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("") })
}
