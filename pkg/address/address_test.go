package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParse_RoundTrip 测试解析/格式化逐字节往返
func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"a/b/c",
		"a/b/",
		"a/b?x=1",
		"a/b?",
		"//localhost",
		"//localhost/",
		"//localhost:5672/outbox/alice",
		"//localhost/outbox/?durable=true",
		"amqp://example.com/inbox/bob",
		"amqps+ws://[::1]:5671/x/y/",
		"a//b",
	}
	for _, in := range inputs {
		a, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, a.String(), "round trip %q", in)
	}
}

// TestParse_Fields 测试字段拆分
func TestParse_Fields(t *testing.T) {
	a, err := Parse("amqp://example.com:5673/outbox/alice?x=1")
	require.NoError(t, err)
	assert.Equal(t, "amqp", a.Scheme)
	assert.Equal(t, "example.com:5673", a.Host)
	assert.Equal(t, "/outbox/alice", a.Path)
	assert.Equal(t, "x=1", a.Query)
	assert.True(t, a.IsAbsolute())
	assert.True(t, a.HasQuery())
	assert.False(t, a.IsWildcard())
	assert.Equal(t, []string{"outbox", "alice"}, a.Segments())
	assert.Equal(t, "outbox/alice?x=1", a.Node())
	assert.Equal(t, "example.com:5673", a.HostPort(DefaultPort))

	rel, err := Parse("outbox/")
	require.NoError(t, err)
	assert.False(t, rel.IsAbsolute())
	assert.True(t, rel.IsWildcard())
	assert.Equal(t, "outbox/", rel.Node())
	assert.Equal(t, "", rel.HostPort(DefaultPort))
}

// TestParse_WildcardDistinct 测试通配地址与裸地址是不同的值
func TestParse_WildcardDistinct(t *testing.T) {
	w := MustParse("//h/a/")
	b := MustParse("//h/a")
	assert.True(t, w.IsWildcard())
	assert.False(t, b.IsWildcard())
	assert.NotEqual(t, w.String(), b.String())
}

// TestParse_Invalid 测试非法地址
func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"a b", "//", "//?x", "a\tb", "a\x00b", "\xff"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAddress, "%q", in)
		assert.Error(t, Validate(in))
	}
	assert.Panics(t, func() { MustParse("bad address") })
}

// TestHostPort_DefaultPort 测试默认端口补全
func TestHostPort_DefaultPort(t *testing.T) {
	assert.Equal(t, "localhost:5672", MustParse("//localhost/x").HostPort(DefaultPort))
	assert.Equal(t, "[::1]:5672", MustParse("//[::1]/x").HostPort(DefaultPort))
	assert.Equal(t, "127.0.0.1:9000", MustParse("//127.0.0.1:9000").HostPort(DefaultPort))
}
